package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"cozinha-magica/internal/render"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

const (
	settleDelay = 100 * time.Millisecond
	scaleFactor = 2
	viewportW   = 900
	viewportH   = 1200
)

const applyExportingJS = `function(cls, bg) {
	this.dataset.prevClass = this.className;
	this.dataset.prevBodyBg = document.body.style.background;
	this.classList.add(cls);
	document.body.style.background = bg;
}`

const restoreJS = `function() {
	this.className = this.dataset.prevClass || "";
	document.body.style.background = this.dataset.prevBodyBg || "";
	delete this.dataset.prevClass;
	delete this.dataset.prevBodyBg;
}`

// RodRasterizer renders pages in headless Chrome. The browser is started on
// first use and shared by later captures.
type RodRasterizer struct {
	mu          sync.Mutex
	bin         string
	debuggerURL string
	launch      *launcher.Launcher
	browser     *rod.Browser
	logger      *zap.Logger
}

// NewRodRasterizer connects to debuggerURL when set, otherwise launches bin
// (or the default Chrome when bin is empty).
func NewRodRasterizer(bin, debuggerURL string, logger *zap.Logger) *RodRasterizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RodRasterizer{bin: bin, debuggerURL: debuggerURL, logger: logger}
}

func (r *RodRasterizer) connect() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	controlURL := r.debuggerURL
	if controlURL == "" {
		l := launcher.New().Headless(true)
		if r.bin != "" {
			l = l.Bin(r.bin)
		}
		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		r.launch = l
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		if r.launch != nil {
			r.launch.Kill()
			r.launch = nil
		}
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	r.logger.Info("Connected to Chrome", zap.Bool("launched", r.launch != nil))

	r.browser = browser
	return browser, nil
}

// Rasterize loads page, applies the exporting state to the node and captures it.
func (r *RodRasterizer) Rasterize(ctx context.Context, page, nodeID string) (Bitmap, error) {
	browser, err := r.connect()
	if err != nil {
		return Bitmap{}, err
	}

	p, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return Bitmap{}, fmt.Errorf("create page: %w", err)
	}
	defer p.Close()

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportW,
		Height:            viewportH,
		DeviceScaleFactor: scaleFactor,
		Mobile:            false,
	}).Call(p); err != nil {
		return Bitmap{}, fmt.Errorf("set device metrics: %w", err)
	}

	if err := p.SetDocumentContent(page); err != nil {
		return Bitmap{}, fmt.Errorf("set content: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return Bitmap{}, fmt.Errorf("wait load: %w", err)
	}

	el, err := p.Element("#" + nodeID)
	if err != nil {
		return Bitmap{}, fmt.Errorf("find #%s: %w", nodeID, err)
	}

	if _, err := el.Eval(applyExportingJS, render.ExportingClass, render.PageBackground); err != nil {
		return Bitmap{}, fmt.Errorf("apply exporting state: %w", err)
	}
	defer func() {
		if _, err := el.Eval(restoreJS); err != nil {
			r.logger.Warn("Failed to restore element state", zap.String("node_id", nodeID), zap.Error(err))
		}
	}()

	select {
	case <-ctx.Done():
		return Bitmap{}, ctx.Err()
	case <-time.After(settleDelay):
	}

	data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return Bitmap{}, fmt.Errorf("capture #%s: %w", nodeID, err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Bitmap{}, fmt.Errorf("decode capture: %w", err)
	}
	return Bitmap{PNG: data, Width: cfg.Width, Height: cfg.Height}, nil
}

// Close disconnects from Chrome and stops it when it was launched here.
func (r *RodRasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launch != nil {
		r.launch.Kill()
		r.launch = nil
	}
	return err
}
