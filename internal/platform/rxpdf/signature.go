package rxpdf

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/assets"
)

// Signature is an encoded PNG or JPEG image ready to place on the page.
type Signature struct {
	Name   string
	Format string // "png" or "jpeg"
	Data   []byte
}

// DecodeSignature checks that data is an image the renderers can place.
func DecodeSignature(name string, data []byte) (Signature, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Signature{}, err
	}
	if format != "png" && format != "jpeg" {
		return Signature{}, errors.New("unsupported signature format " + format)
	}
	return Signature{Name: name, Format: format, Data: data}, nil
}

// LoadSignature fetches the named asset. It never fails: a missing, unreadable
// or undecodable asset returns ok == false and the page is laid out without it.
func LoadSignature(ctx context.Context, store assets.Store, name string, logger zerolog.Logger) (Signature, bool) {
	if store == nil || name == "" {
		return Signature{}, false
	}
	data, _, err := store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, assets.ErrAssetNotFound) {
			logger.Debug().Str("asset", name).Msg("no signature asset, skipping")
		} else {
			logger.Warn().Err(err).Str("asset", name).Msg("signature asset unreadable, skipping")
		}
		return Signature{}, false
	}
	sig, err := DecodeSignature(name, data)
	if err != nil {
		logger.Warn().Err(err).Str("asset", name).Msg("signature asset is not a usable image, skipping")
		return Signature{}, false
	}
	return sig, true
}
