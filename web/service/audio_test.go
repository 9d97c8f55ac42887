package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justaleaf/audiovault/database"
	"github.com/justaleaf/audiovault/util/crypto"
)

func TestIsAllowedContentType(t *testing.T) {
	tests := []struct {
		contentType string
		allowed     bool
	}{
		{"audio/mpeg", true},
		{"audio/wav", true},
		{"audio/ogg", true},
		{"audio/flac", true},
		{"audio/midi", false},
		{"video/mp4", false},
		{"text/plain", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, IsAllowedContentType(tt.contentType), tt.contentType)
	}
}

func TestCreateAudioFile(t *testing.T) {
	setup(t)
	storageRoot := t.TempDir()
	audioService := NewAudioService(storageRoot)
	userService := NewUserService(crypto.NewPasswordHasher())

	owner, err := userService.CreateUser("alice", "pw1")
	require.NoError(t, err)

	audio, err := audioService.CreateAudioFile("song1", owner.Id)
	require.NoError(t, err)
	assert.NotZero(t, audio.Id)
	assert.Equal(t, owner.Id, audio.OwnerId)
	assert.True(t, strings.Contains(audio.Path, "song1"))
	assert.True(t, strings.HasPrefix(audio.Path, storageRoot))
}

func TestSaveUpload(t *testing.T) {
	setup(t)
	audioService := NewAudioService(t.TempDir())
	userService := NewUserService(crypto.NewPasswordHasher())

	owner, err := userService.CreateUser("alice", "pw1")
	require.NoError(t, err)

	audio, err := audioService.CreateAudioFile("song1", owner.Id)
	require.NoError(t, err)

	err = audioService.SaveUpload(audio, strings.NewReader("audio-bytes"))
	require.NoError(t, err)

	data, err := os.ReadFile(audio.Path)
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))
}

func TestListByOwner(t *testing.T) {
	setup(t)
	audioService := NewAudioService(t.TempDir())
	userService := NewUserService(crypto.NewPasswordHasher())

	alice, err := userService.CreateUser("alice", "pw1")
	require.NoError(t, err)
	bob, err := userService.CreateUser("bob", "pw2")
	require.NoError(t, err)

	_, err = audioService.CreateAudioFile("a1", alice.Id)
	require.NoError(t, err)
	_, err = audioService.CreateAudioFile("a2", alice.Id)
	require.NoError(t, err)
	_, err = audioService.CreateAudioFile("b1", bob.Id)
	require.NoError(t, err)

	files, err := audioService.ListByOwner(alice.Id)
	assert.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.Equal(t, alice.Id, f.OwnerId)
	}
}

func TestDeleteAudioFile(t *testing.T) {
	setup(t)
	audioService := NewAudioService(t.TempDir())
	userService := NewUserService(crypto.NewPasswordHasher())

	alice, err := userService.CreateUser("alice", "pw1")
	require.NoError(t, err)
	bob, err := userService.CreateUser("bob", "pw2")
	require.NoError(t, err)

	audio, err := audioService.CreateAudioFile("song1", alice.Id)
	require.NoError(t, err)
	require.NoError(t, audioService.SaveUpload(audio, strings.NewReader("x")))

	// wrong owner does not match
	assert.ErrorIs(t, audioService.DeleteAudioFile(audio.Id, bob.Id), ErrAudioNotFound)

	assert.NoError(t, audioService.DeleteAudioFile(audio.Id, alice.Id))
	_, err = os.Stat(audio.Path)
	assert.True(t, os.IsNotExist(err))

	// deleting a nonexistent record reports not found
	assert.ErrorIs(t, audioService.DeleteAudioFile(audio.Id, alice.Id), ErrAudioNotFound)
	assert.ErrorIs(t, audioService.DeleteAudioFile(9999, alice.Id), ErrAudioNotFound)
}

func TestDeleteUserCascadesAudio(t *testing.T) {
	setup(t)
	storageRoot := filepath.Join(t.TempDir(), "storage")
	t.Setenv("AV_STORAGE_FOLDER", storageRoot)
	audioService := NewAudioService(storageRoot)
	userService := NewUserService(crypto.NewPasswordHasher())

	alice, err := userService.CreateUser("alice", "pw1")
	require.NoError(t, err)

	audio, err := audioService.CreateAudioFile("song1", alice.Id)
	require.NoError(t, err)
	require.NoError(t, audioService.SaveUpload(audio, strings.NewReader("x")))

	// force the delete onto a fresh pooled connection, foreign key
	// enforcement has to hold on every connection, not just the first
	sqlDB, err := database.GetDB().DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(0)

	require.NoError(t, userService.DeleteUser(alice.Id))

	files, err := audioService.ListByOwner(alice.Id)
	assert.NoError(t, err)
	assert.Empty(t, files)

	_, err = os.Stat(audio.Path)
	assert.True(t, os.IsNotExist(err))
}
