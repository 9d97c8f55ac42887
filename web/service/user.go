package service

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/justaleaf/audiovault/config"
	"github.com/justaleaf/audiovault/database"
	"github.com/justaleaf/audiovault/database/model"
	"github.com/justaleaf/audiovault/logger"
	"github.com/justaleaf/audiovault/util/crypto"
	"github.com/justaleaf/audiovault/util/random"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	hasher *crypto.PasswordHasher
}

func NewUserService(hasher *crypto.PasswordHasher) *UserService {
	return &UserService{hasher: hasher}
}

func (s *UserService) CreateUser(username string, password string) (*model.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:       username,
		HashedPassword: hash,
	}
	if err := database.GetDB().Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(id int) (*model.User, error) {
	user := &model.User{}
	err := database.GetDB().First(user, id).Error
	if database.IsNotFound(err) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserByUsername(username string) (*model.User, error) {
	user := &model.User{}
	err := database.GetDB().Where("username = ?", username).First(user).Error
	if database.IsNotFound(err) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserByYandexId(yandexId string) (*model.User, error) {
	user := &model.User{}
	err := database.GetDB().Where("yandex_id = ?", yandexId).First(user).Error
	if database.IsNotFound(err) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// GetOrCreateByYandexId resolves an external identity to an internal
// account, creating one on first login. The generated account carries an
// unusable password: a bcrypt hash of a throwaway random secret.
func (s *UserService) GetOrCreateByYandexId(yandexId string, login string) (*model.User, error) {
	user, err := s.GetUserByYandexId(yandexId)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	username := login
	if username == "" {
		username = "yandex_" + random.Seq(8)
	}
	if _, err := s.GetUserByUsername(username); err == nil {
		username = username + "_" + random.Seq(6)
	}

	hash, err := s.hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}

	user = &model.User{
		Username:       username,
		YandexId:       &yandexId,
		HashedPassword: hash,
	}
	if err := database.GetDB().Create(user).Error; err != nil {
		return nil, err
	}
	logger.Infof("created account %q for yandex id %s", username, yandexId)
	return user, nil
}

func (s *UserService) UpdateUsername(id int, username string) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	user.Username = username
	if err := database.GetDB().Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the account, its audio rows (FK cascade) and,
// best effort, the backing storage directory.
func (s *UserService) DeleteUser(id int) error {
	result := database.GetDB().Delete(&model.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	dir := filepath.Join(config.GetStorageFolder(), strconv.Itoa(id))
	if err := os.RemoveAll(dir); err != nil {
		logger.Warning("remove storage dir:", err)
	}
	return nil
}
