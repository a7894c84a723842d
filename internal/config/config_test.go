package config

import (
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("RESTAURANT_FILE", "testdata/restaurant.yaml")
	t.Setenv("SESSION_SECRET", "secret")
}

func TestLoad(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("APP_PORT", "9090")
		t.Setenv("APP_ENV", "test")
		t.Setenv("ORDER_API_URL", "https://api.example.com/orders")
		t.Setenv("LOCAL_COUNTRY_CODE", "de")
		t.Setenv("GEOLOCATION_TIMEOUT", "3s")
		t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "9090", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "https://api.example.com/orders", cfg.OrderAPIURL)
		assert.Equal(t, "DE", cfg.LocalCountryCode)
		assert.Equal(t, 3*time.Second, cfg.GeolocationTimeout)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	})

	t.Run("Defaults", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DB_PORT", "")
		t.Setenv("LOCAL_COUNTRY_CODE", "")
		t.Setenv("GEOLOCATION_TIMEOUT", "soon")
		t.Setenv("RESTAURANT_TZ", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "TR", cfg.LocalCountryCode)
		assert.Equal(t, 10*time.Second, cfg.GeolocationTimeout)
		assert.Equal(t, 6*time.Hour, cfg.CartTTL)
		assert.Equal(t, "Europe/Istanbul", cfg.RestaurantTZ)
	})

	t.Run("Missing DB host", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DB_HOST", "")
		_, err := Load()
		assert.ErrorIs(t, err, ErrMissingDBHost)
	})

	t.Run("Missing restaurant file", func(t *testing.T) {
		setRequired(t)
		t.Setenv("RESTAURANT_FILE", "")
		_, err := Load()
		assert.ErrorIs(t, err, ErrMissingRestaurantFile)
	})
}

func TestLoad_MissingSessionSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_SECRET", "")
	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSessionSecret)
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.UTC, (&Config{RestaurantTZ: "Mars/Olympus"}).Location())
	assert.Equal(t, "UTC", (&Config{RestaurantTZ: "UTC"}).Location().String())
}

func TestLoadConfig_Fatal(t *testing.T) {
	if os.Getenv("BE_CRASHER") == "1" {
		os.Setenv("DB_HOST", "")
		LoadConfig()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestLoadConfig_Fatal")
	cmd.Env = append(os.Environ(), "BE_CRASHER=1", "DB_HOST=")
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.False(t, exitErr.Success())
}
