package common

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewI18nManagerLoadsEmbeddedCatalogs(t *testing.T) {
	manager, err := NewI18nManager("en")
	require.NoError(t, err)

	assert.True(t, manager.Supports("en"))
	assert.True(t, manager.Supports("zh-TW"))
	assert.False(t, manager.Supports("vn"))
	assert.Equal(t, "Success", manager.GetMessage(MsgSuccessDefault))
	assert.Equal(t, "成功", manager.GetMessageIn("zh-TW", MsgSuccessDefault))
}

func TestNewI18nManagerRejectsUnknownLocale(t *testing.T) {
	_, err := NewI18nManager("fr")
	assert.Error(t, err)
}

func TestGetMessageFallsBack(t *testing.T) {
	manager, err := NewI18nManager("en")
	require.NoError(t, err)

	assert.Equal(t, "Success", manager.GetMessageIn("de", MsgSuccessDefault))
	assert.Equal(t, "no.such.key", manager.GetMessageIn("zh-TW", "no.such.key"))
	// intermediate node is not a message
	assert.Equal(t, "response.success", manager.GetMessage("response.success"))
}

func TestSetLocale(t *testing.T) {
	manager, err := NewI18nManager("en")
	require.NoError(t, err)

	require.NoError(t, manager.SetLocale("zh-TW"))
	assert.Equal(t, "zh-TW", manager.GetLocale())
	assert.Error(t, manager.SetLocale("xx"))
	assert.Equal(t, "zh-TW", manager.GetLocale())
}

func TestGetLocaleFromHeader(t *testing.T) {
	cases := map[string]string{
		"":                          "en",
		"en-US,en;q=0.9":            "en",
		"zh-TW,zh;q=0.9,en;q=0.8":   "zh-TW",
		"zh-Hant-TW":                "zh-TW",
		"fr-FR, de;q=0.8, zh;q=0.1": "zh-TW",
		"fr-FR, de":                 "en",
	}
	for header, want := range cases {
		t.Run(header, func(t *testing.T) {
			h := http.Header{}
			if header != "" {
				h.Set("Accept-Language", header)
			}
			assert.Equal(t, want, GetLocaleFromHeader(h))
		})
	}
}

func TestTWithContextAndFallback(t *testing.T) {
	ctx := SetLocaleInContext(context.Background(), "zh-TW")

	assert.Equal(t, "找不到使用者", TWithContext(ctx, MsgUserNotFound))
	assert.Equal(t, "fallback", TWithContextAndFallback(ctx, "missing.key", "fallback"))
}
