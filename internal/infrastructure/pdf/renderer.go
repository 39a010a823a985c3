package pdf

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Config selects the browser. ControlURL connects to a running Chrome; Bin
// launches one; both empty uses the launcher's managed browser.
type Config struct {
	ControlURL string
	Bin        string
	Timeout    time.Duration
}

// Renderer prints HTML to PDF. The browser is started lazily and shared
// between calls; each render uses its own page.
type Renderer struct {
	cfg    Config
	logger *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

func New(cfg Config, logger *zap.Logger) *Renderer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{cfg: cfg, logger: logger}
}

// RenderPDF wraps body with Document and prints it to A4 PDF bytes.
func (r *Renderer) RenderPDF(ctx context.Context, title, body string) ([]byte, error) {
	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Timeout(r.cfg.Timeout).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		r.reset()
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			r.logger.Debug("close pdf page", zap.Error(err))
		}
	}()

	if err := page.SetDocumentContent(Document(title, body)); err != nil {
		return nil, fmt.Errorf("set content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
		PaperWidth:        float(8.27),
		PaperHeight:       float(11.69),
	})
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	defer stream.Close()

	return io.ReadAll(stream)
}

// Close shuts the browser down.
func (r *Renderer) Close(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}

func (r *Renderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	controlURL := r.cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(true)
		if r.cfg.Bin != "" {
			l = l.Bin(r.cfg.Bin)
		}
		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	r.logger.Info("pdf browser connected")
	r.browser = browser
	return browser, nil
}

func (r *Renderer) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil {
		_ = r.browser.Close()
		r.browser = nil
	}
}

func float(v float64) *float64 {
	return &v
}
