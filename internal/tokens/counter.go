package tokens

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

const fallbackEncoding = "cl100k_base"

var setLoader sync.Once

// Counter reports the token length of text.
type Counter interface {
	Count(text string) int
}

// Heuristic approximates tokens as one per four bytes of text.
type Heuristic struct{}

// Count implements Counter.
func (Heuristic) Count(text string) int {
	return len(text) / 4
}

type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

func (c tiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}

// NewCounter returns a tiktoken counter for model. Unknown models use the
// cl100k_base encoding; if no encoding loads, the heuristic is returned and
// exact reports false.
func NewCounter(model string) (counter Counter, exact bool) {
	setLoader.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	model = strings.TrimSpace(model)
	if model != "" {
		if enc, err := tiktoken.EncodingForModel(model); err == nil {
			return tiktokenCounter{enc: enc}, true
		}
	}
	if enc, err := tiktoken.GetEncoding(fallbackEncoding); err == nil {
		return tiktokenCounter{enc: enc}, true
	}
	return Heuristic{}, false
}
