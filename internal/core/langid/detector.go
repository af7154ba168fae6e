package langid

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/abadojack/whatlanggo"
)

// Detector guesses the language of a text sample and returns an ISO 639-1 code.
type Detector interface {
	Detect(sample string) (string, error)
}

var (
	ErrNoScript    = errors.New("langid: no recognizable script")
	ErrUnsupported = errors.New("langid: unsupported language")
	ErrUnreliable  = errors.New("langid: detection below confidence floor")
)

// whatlangCodes covers the languages notices arrive in plus the common
// European ones, so non-Indic input is still routed to translation.
var whatlangCodes = map[whatlanggo.Lang]string{
	whatlanggo.Eng: "en",
	whatlanggo.Hin: "hi",
	whatlanggo.Mar: "mr",
	whatlanggo.Ben: "bn",
	whatlanggo.Pan: "pa",
	whatlanggo.Guj: "gu",
	whatlanggo.Tel: "te",
	whatlanggo.Kan: "kn",
	whatlanggo.Mal: "ml",
	whatlanggo.Tam: "ta",
	whatlanggo.Urd: "ur",
	whatlanggo.Ori: "or",
	whatlanggo.Nep: "ne",
	whatlanggo.Spa: "es",
	whatlanggo.Fra: "fr",
	whatlanggo.Deu: "de",
	whatlanggo.Por: "pt",
	whatlanggo.Ita: "it",
	whatlanggo.Rus: "ru",
	whatlanggo.Arb: "ar",
}

// DefaultMinConfidence is the floor applied to Latin-script detections.
// Short English text often scores around 0.3 for French or Dutch.
const DefaultMinConfidence = 0.5

// WhatlangDetector is the trigram detector from whatlanggo.
type WhatlangDetector struct {
	// MinConfidence rejects Latin-script detections below this score
	// (0 disables the check). Other scripts already rule out English.
	MinConfidence float64
}

func (d WhatlangDetector) Detect(sample string) (string, error) {
	script := whatlanggo.DetectScript(sample)
	if script == nil {
		return "", ErrNoScript
	}
	info := whatlanggo.Detect(sample)
	if d.MinConfidence > 0 && script == unicode.Latin && info.Confidence < d.MinConfidence {
		return "", fmt.Errorf("%w: %.2f", ErrUnreliable, info.Confidence)
	}
	code, ok := whatlangCodes[info.Lang]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, info.Lang.String())
	}
	return code, nil
}
