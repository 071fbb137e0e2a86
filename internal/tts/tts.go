// Package tts synthesizes spoken audio for plant content with the Google
// Cloud Text-to-Speech API. Synthesized clips are cached on disk keyed by
// text and language, repeated requests for the same content never hit the
// API twice.
package tts

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"google.golang.org/api/option"
	texttospeech "google.golang.org/api/texttospeech/v1"

	"github.com/mediplant/mediplant-go/internal/conf"
	"github.com/mediplant/mediplant-go/internal/errors"
	"github.com/mediplant/mediplant-go/internal/logging"
)

// voiceLanguages maps the content language tags used by the platform to
// Text-to-Speech voice language codes. Indian voices are preferred where
// available.
var voiceLanguages = map[string]string{
	"en": "en-IN",
	"hi": "hi-IN",
	"bn": "bn-IN",
	"ta": "ta-IN",
	"te": "te-IN",
	"ml": "ml-IN",
	"kn": "kn-IN",
	"mr": "mr-IN",
	"gu": "gu-IN",
	"pa": "pa-IN",
}

const defaultVoiceLanguage = "en-IN"

// Service synthesizes and caches audio clips.
type Service struct {
	client   *texttospeech.Service
	cacheDir string
	logger   *slog.Logger
}

// NewService creates a Text-to-Speech client and ensures the cache directory
// exists.
func NewService(ctx context.Context, settings *conf.Settings) (*Service, error) {
	var opts []option.ClientOption
	if settings.Speech.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(settings.Speech.CredentialsFile))
	}

	client, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.New(fmt.Errorf("creating Text-to-Speech client: %w", err)).
			Component("tts").
			Category(errors.CategoryConfiguration).
			Build()
	}

	cacheDir := settings.Speech.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "mediplant-tts")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, errors.New(fmt.Errorf("creating TTS cache directory: %w", err)).
			Component("tts").
			Category(errors.CategoryFileIO).
			Context("cache_dir", cacheDir).
			Build()
	}

	return &Service{
		client:   client,
		cacheDir: cacheDir,
		logger:   logging.ForService("tts"),
	}, nil
}

// Synthesize returns the path of an MP3 clip speaking the given text. The
// cache is checked before calling the API.
func (s *Service) Synthesize(ctx context.Context, text, language string) (string, error) {
	if text == "" {
		return "", errors.Newf("nothing to synthesize").
			Component("tts").
			Category(errors.CategoryValidation).
			Build()
	}

	clipPath := s.clipPath(text, language)
	if _, err := os.Stat(clipPath); err == nil {
		return clipPath, nil
	}

	request := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: VoiceLanguage(language),
			SsmlGender:   "FEMALE",
		},
		AudioConfig: &texttospeech.AudioConfig{AudioEncoding: "MP3"},
	}

	response, err := s.client.Text.Synthesize(request).Context(ctx).Do()
	if err != nil {
		return "", errors.New(fmt.Errorf("synthesizing speech: %w", err)).
			Component("tts").
			Category(errors.CategorySpeech).
			Context("language", language).
			Build()
	}

	audio, err := base64.StdEncoding.DecodeString(response.AudioContent)
	if err != nil {
		return "", errors.New(fmt.Errorf("decoding audio content: %w", err)).
			Component("tts").
			Category(errors.CategorySpeech).
			Build()
	}

	if err := s.writeClip(clipPath, audio); err != nil {
		return "", err
	}
	s.logger.Info("speech synthesized", "language", language, "bytes", len(audio), "path", clipPath)
	return clipPath, nil
}

// VoiceLanguage resolves a content language tag to the voice language code.
func VoiceLanguage(language string) string {
	if code, ok := voiceLanguages[language]; ok {
		return code
	}
	return defaultVoiceLanguage
}

// clipPath derives the cache file name from text and language.
func (s *Service) clipPath(text, language string) string {
	sum := sha256.Sum256([]byte(language + "\x00" + text))
	return filepath.Join(s.cacheDir, hex.EncodeToString(sum[:16])+".mp3")
}

// writeClip writes atomically so readers never see a partial file.
func (s *Service) writeClip(path string, audio []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, audio, 0o644); err != nil {
		return errors.New(fmt.Errorf("writing audio clip: %w", err)).
			Component("tts").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.New(fmt.Errorf("renaming audio clip: %w", err)).
			Component("tts").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	return nil
}
