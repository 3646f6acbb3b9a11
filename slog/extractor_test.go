package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/doccrawl"
	"github.com/fwojciec/doccrawl/mock"
	docslog "github.com/fwojciec/doccrawl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs the winning strategy", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(rawHTML, pageURL string, minLength int) (*doccrawl.ExtractedContent, error) {
				return &doccrawl.ExtractedContent{
					Text:       "héllo",
					CodeBlocks: []string{"fmt.Println()"},
					Strategy:   doccrawl.StrategySemantic,
				}, nil
			},
		}

		got, err := docslog.NewLoggingExtractor(inner, logger).Extract("<html></html>", "https://example.com/a", 5)

		require.NoError(t, err)
		assert.Equal(t, doccrawl.StrategySemantic, got.Strategy)
		output := buf.String()
		assert.Contains(t, output, "msg=extract")
		assert.Contains(t, output, "url=https://example.com/a")
		assert.Contains(t, output, "strategy=semantic")
		assert.Contains(t, output, "chars=5")
		assert.Contains(t, output, "code_blocks=1")
	})

	t.Run("logs empty content", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(rawHTML, pageURL string, minLength int) (*doccrawl.ExtractedContent, error) {
				return &doccrawl.ExtractedContent{Title: "Tiny"}, nil
			},
		}

		_, err := docslog.NewLoggingExtractor(inner, logger).Extract("<html></html>", "https://example.com/a", 100)

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "strategy=(empty)")
	})
}

func TestLoggingDetector_Detect(t *testing.T) {
	t.Parallel()

	t.Run("logs detected framework with duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FrameworkDetector{
			DetectFn: func(html string) doccrawl.Framework { return doccrawl.FrameworkDocusaurus },
		}

		got := docslog.NewLoggingDetector(inner, logger).Detect("<html>docusaurus</html>")

		assert.Equal(t, doccrawl.FrameworkDocusaurus, got)
		output := buf.String()
		assert.Contains(t, output, "framework detection")
		assert.Contains(t, output, "framework=docusaurus")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs unknown framework", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.FrameworkDetector{
			DetectFn: func(html string) doccrawl.Framework { return doccrawl.FrameworkUnknown },
		}

		docslog.NewLoggingDetector(inner, logger).Detect("<html>unknown</html>")

		assert.Contains(t, buf.String(), "framework=(unknown)")
	})
}
