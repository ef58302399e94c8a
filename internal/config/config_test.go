package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VENUES_AUTH_JWT_SECRET", "secret")
	t.Setenv("VENUES_MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5005", cfg.Server.Port)
	assert.Equal(t, "10M", cfg.Server.UploadLimit)
	assert.Equal(t, "mongo", cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "venues", cfg.Mongo.Database)
	assert.Equal(t, 6*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, []string{"jpg", "jpeg", "png"}, cfg.Cloudinary.Formats())
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, "venue.events", cfg.Events.Queue)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VENUES_AUTH_JWT_SECRET", "secret")
	t.Setenv("VENUES_SERVER_PORT", "8080")
	t.Setenv("VENUES_STORE_DRIVER", "mysql")
	t.Setenv("VENUES_STORE_TIMEOUT", "2s")
	t.Setenv("VENUES_MYSQL_USER", "app")
	t.Setenv("VENUES_MYSQL_HOST", "db")
	t.Setenv("VENUES_MYSQL_NAME", "venues")
	t.Setenv("VENUES_AUTH_BCRYPT_COST", "12")
	t.Setenv("VENUES_EVENTS_ENABLED", "true")
	t.Setenv("VENUES_CLOUDINARY_ALLOWED_FORMATS", " PNG, webp ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Store.Driver)
	assert.Equal(t, 2*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "app", cfg.MySQL.User)
	assert.Equal(t, "3306", cfg.MySQL.Port)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, []string{"png", "webp"}, cfg.Cloudinary.Formats())
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("VENUES_AUTH_JWT_SECRET", "")
	t.Setenv("VENUES_MONGO_URI", "mongodb://localhost:27017")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("VENUES_AUTH_JWT_SECRET", "secret")
	t.Setenv("VENUES_STORE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresDriverSettings(t *testing.T) {
	t.Setenv("VENUES_AUTH_JWT_SECRET", "secret")
	t.Setenv("VENUES_MONGO_URI", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VENUES_MONGO_URI")
}
