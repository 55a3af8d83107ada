package main

import (
	"fmt"

	"github.com/lankanlp/sinhalate/internal/config"
	"github.com/lankanlp/sinhalate/internal/hybrid"
	"github.com/lankanlp/sinhalate/internal/idiom"
	"github.com/lankanlp/sinhalate/internal/translation"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// newTranslator builds a hybrid translator from the configuration. The
// returned close function releases the backend HTTP client. CLI invocations
// skip the translation memory; that is a server concern.
func newTranslator(cfg *config.Config) (*hybrid.Translator, func() error, error) {
	dict, err := idiom.Load(cfg.Idioms.MappingFile)
	if err != nil {
		return nil, nil, fmt.Errorf("idiom.Load(%s) > %w", cfg.Idioms.MappingFile, err)
	}

	nllbClient := translation.NewNLLBClient(cfg.Backend.URL, cfg.Backend.MaxRetryAttempts)
	var backend translation.Translator = nllbClient
	if cfg.Backend.CircuitBreaker {
		backend = translation.NewBreakerTranslator(nllbClient)
	}

	return hybrid.NewTranslator(dict, backend, nil, nil), nllbClient.Close, nil
}

// loadDictionary loads only the idiom dictionary, for commands that never
// contact the model server.
func loadDictionary(cfg *config.Config) (*idiom.Dictionary, error) {
	dict, err := idiom.Load(cfg.Idioms.MappingFile)
	if err != nil {
		return nil, fmt.Errorf("idiom.Load(%s) > %w", cfg.Idioms.MappingFile, err)
	}
	return dict, nil
}
