package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Yassen717/HabitFlow/pkg/config"
)

func TestGetters(t *testing.T) {
	cfg := config.NewFromFile("./testdata/missing.env")
	t.Setenv("HF_TIMEOUT", "15s")
	t.Setenv("HF_PORT", "8080")
	t.Setenv("HF_FLAG", "true")
	t.Setenv("HF_ORIGINS", " http://a.io, ,http://b.io ")
	t.Setenv("HF_BROKEN", "nope")

	assert.Equal(t, 15*time.Second, cfg.GetDuration("HF_TIMEOUT", time.Second))
	assert.Equal(t, time.Second, cfg.GetDuration("HF_BROKEN", time.Second))
	assert.Equal(t, 8080, cfg.GetInt("HF_PORT", 1))
	assert.Equal(t, 1, cfg.GetInt("HF_BROKEN", 1))
	assert.True(t, cfg.GetBool("HF_FLAG", false))
	assert.False(t, cfg.GetBool("HF_UNSET", false))
	assert.Equal(t, "def", cfg.GetStringOr("HF_UNSET", "def"))
	assert.Equal(t, []string{"http://a.io", "http://b.io"}, cfg.GetList("HF_ORIGINS"))
	assert.Empty(t, cfg.GetList("HF_UNSET"))
}

func TestSingleton(t *testing.T) {
	assert.Same(t, config.NewFromFile("a.env"), config.NewFromFile("b.env"))
}
