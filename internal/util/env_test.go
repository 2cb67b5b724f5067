package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TB_TEST_STR", " value ")
	t.Setenv("TB_TEST_DUR", "90m")
	t.Setenv("TB_TEST_BAD_DUR", "soon")
	t.Setenv("TB_TEST_BOOL", "true")
	t.Setenv("TB_TEST_INT", "12")
	t.Setenv("TB_TEST_LIST", "http://a.test, ,http://b.test")

	assert.Equal(t, "value", EnvOrDefault("TB_TEST_STR", "x"))
	assert.Equal(t, "x", EnvOrDefault("TB_TEST_UNSET", "x"))
	assert.Equal(t, 90*time.Minute, EnvDuration("TB_TEST_DUR", time.Hour))
	assert.Equal(t, time.Hour, EnvDuration("TB_TEST_BAD_DUR", time.Hour))
	assert.True(t, EnvBool("TB_TEST_BOOL", false))
	assert.False(t, EnvBool("TB_TEST_UNSET", false))
	assert.Equal(t, 12, EnvInt("TB_TEST_INT", 10))
	assert.Equal(t, 10, EnvInt("TB_TEST_UNSET", 10))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, EnvList("TB_TEST_LIST"))
	assert.Nil(t, EnvList("TB_TEST_UNSET"))
}
