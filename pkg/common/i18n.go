package common

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
)

//go:embed i18n/*.json
var catalogFS embed.FS

// DefaultLocale is used when a request carries no supported Accept-Language
const DefaultLocale = "en"

// I18nManager holds every embedded message catalog keyed by locale
type I18nManager struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]any
	locale   string
}

// NewI18nManager loads the embedded catalogs and selects locale as the default
func NewI18nManager(locale string) (*I18nManager, error) {
	manager := &I18nManager{
		catalogs: make(map[string]map[string]any),
		locale:   locale,
	}

	entries, err := catalogFS.ReadDir("i18n")
	if err != nil {
		return nil, fmt.Errorf("failed to list i18n catalogs: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		data, err := catalogFS.ReadFile(path.Join("i18n", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read i18n file %s: %w", name, err)
		}
		var messages map[string]any
		if err := json.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("failed to parse i18n file %s: %w", name, err)
		}
		manager.catalogs[strings.TrimSuffix(name, ".json")] = messages
	}

	if _, ok := manager.catalogs[locale]; !ok {
		return nil, fmt.Errorf("no i18n catalog for locale %s", locale)
	}
	return manager, nil
}

// GetMessage retrieves a message by key path (e.g., "response.success.default") in the default locale
func (i *I18nManager) GetMessage(keyPath string) string {
	return i.GetMessageIn(i.GetLocale(), keyPath)
}

// GetMessageIn retrieves a message for a specific locale, falling back to the default locale.
// The key path itself is returned when neither catalog has it.
func (i *I18nManager) GetMessageIn(locale, keyPath string) string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if msg, ok := lookup(i.catalogs[locale], keyPath); ok {
		return msg
	}
	if msg, ok := lookup(i.catalogs[i.locale], keyPath); ok {
		return msg
	}
	return keyPath
}

func lookup(messages map[string]any, keyPath string) (string, bool) {
	if messages == nil {
		return "", false
	}
	keys := strings.Split(keyPath, ".")
	current := messages
	for idx, key := range keys {
		value, ok := current[key]
		if !ok {
			return "", false
		}
		if idx == len(keys)-1 {
			str, ok := value.(string)
			return str, ok
		}
		next, ok := value.(map[string]any)
		if !ok {
			return "", false
		}
		current = next
	}
	return "", false
}

// SetLocale changes the default locale
func (i *I18nManager) SetLocale(locale string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.catalogs[locale]; !ok {
		return fmt.Errorf("no i18n catalog for locale %s", locale)
	}
	i.locale = locale
	return nil
}

// GetLocale returns the default locale
func (i *I18nManager) GetLocale() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.locale
}

// Supports reports whether a catalog exists for locale
func (i *I18nManager) Supports(locale string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.catalogs[locale]
	return ok
}

var (
	globalI18n     *I18nManager
	globalI18nOnce sync.Once
)

// InitGlobalI18n initializes the global i18n manager
func InitGlobalI18n(locale string) error {
	manager, err := NewI18nManager(locale)
	if err != nil {
		return err
	}
	globalI18nOnce.Do(func() {})
	globalI18n = manager
	return nil
}

// GetGlobalI18n returns the global i18n manager, loading the default locale on first use
func GetGlobalI18n() *I18nManager {
	globalI18nOnce.Do(func() {
		if globalI18n != nil {
			return
		}
		manager, err := NewI18nManager(DefaultLocale)
		if err != nil {
			manager = &I18nManager{catalogs: map[string]map[string]any{}, locale: DefaultLocale}
		}
		globalI18n = manager
	})
	return globalI18n
}

// T is a shorthand for getting a message from global i18n manager
func T(keyPath string) string {
	return GetGlobalI18n().GetMessage(keyPath)
}

// TWithFallback returns fallback when the key has no translation
func TWithFallback(keyPath string, fallback string) string {
	msg := T(keyPath)
	if msg == keyPath {
		return fallback
	}
	return msg
}
