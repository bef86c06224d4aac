package worker

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

func renderFrontendPage(logger *slog.Logger, targetURL string, preReadyScript string) (_ *rod.Page, cleanup func(), err error) {
	cleanup = func() {}

	logger.Info("Worker: Navigating to frontend print page...", slog.String("url", targetURL))

	launch := launcher.New().
		Headless(true).
		NoSandbox(true)
	defer func() {
		if err != nil {
			launch.Cleanup()
		}
	}()

	if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		return nil, cleanup, fmt.Errorf("launch chromium: %w", err)
	}

	browser := rod.New().ControlURL(browserURL).Timeout(90 * time.Second)
	if err := browser.Connect(); err != nil {
		return nil, cleanup, fmt.Errorf("connect browser: %w", err)
	}

	page := browser.MustPage(targetURL)
	cleanup = func() {
		if page != nil {
			_ = page.Close()
		}
		_ = browser.Close()
		launch.Cleanup()
	}

	page.MustWaitLoad()

	if strings.TrimSpace(preReadyScript) != "" {
		logger.Info("Worker: Injecting print data before render...")
		if _, evalErr := page.Timeout(10 * time.Second).Eval(preReadyScript); evalErr != nil {
			return nil, cleanup, fmt.Errorf("inject print data: %w", evalErr)
		}
	}

	logger.Info("Worker: Waiting for frontend render signal (#pdf-render-ready)...")
	page.Timeout(30 * time.Second).MustElement("#pdf-render-ready")

	// 额外等待 WebFont/系统字体就绪，避免回退字体度量导致排版差异
	logger.Info("Worker: Waiting for document.fonts.ready...")
	if _, evalErr := page.Timeout(5 * time.Second).Eval(`() => {
	  if (document && document.fonts && document.fonts.ready) {
	    return Promise.race([
	      document.fonts.ready.then(() => true),
	      new Promise((resolve) => setTimeout(() => resolve(true), 3000))
	    ]);
	  }
	  return true;
	}`); evalErr != nil {
		logger.Warn("Worker: document.fonts.ready wait failed, continue", slog.Any("error", evalErr))
	}
	logger.Info("Worker: Render signal received.")

	if err := (proto.EmulationSetEmulatedMedia{Media: "print"}).Call(page); err != nil {
		return nil, cleanup, fmt.Errorf("set emulated media to print: %w", err)
	}

	logger.Info("Worker: Injecting print-cleanup CSS...")
	cleanupCSS := `
  html, body {
    margin: 0 !important;
    padding: 0 !important;
    background: white !important;
  }
  #pdf-root {
    box-shadow: none !important;
    margin: 0 auto !important;
    background: white !important;
  }
  @media print {
    * {
      -webkit-print-color-adjust: exact !important;
      print-color-adjust: exact !important;
    }
    @page {
      size: A4;
      margin: 0;
    }
    body {
      background: white !important;
      margin: 0 !important;
      padding: 0 !important;
      overflow: hidden !important;
    }
    body * {
      visibility: hidden !important;
    }
    #pdf-root {
      visibility: visible !important;
      position: fixed !important;
      top: 0 !important;
      left: 50% !important;
      transform: translateX(-50%) !important;
      box-shadow: none !important;
      margin: 0 auto !important;
      background: white !important;
      z-index: 999999 !important;
    }
    #pdf-root * {
      visibility: visible !important;
    }
  }
`
	if err := page.AddStyleTag("", cleanupCSS); err != nil {
		return nil, cleanup, fmt.Errorf("inject cleanup css: %w", err)
	}

	page.MustWaitIdle()
	return page, cleanup, nil
}

func exportPDF(page *rod.Page) ([]byte, error) {
	params := &proto.PagePrintToPDF{
		PrintBackground:   true,
		PaperWidth:        float64Ptr(8.27),
		PaperHeight:       float64Ptr(11.69),
		MarginTop:         float64Ptr(0),
		MarginBottom:      float64Ptr(0),
		MarginLeft:        float64Ptr(0),
		MarginRight:       float64Ptr(0),
		PreferCSSPageSize: true,
	}
	reader, err := page.PDF(params)
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf bytes: %w", err)
	}
	return data, nil
}

func capturePreparedScreenshot(page *rod.Page, quality int) ([]byte, error) {
	element, err := page.Timeout(5 * time.Second).Element("#pdf-root")
	if err == nil {
		if data, shotErr := element.Screenshot(proto.PageCaptureScreenshotFormatJpeg, quality); shotErr == nil {
			return data, nil
		}
	}

	req := &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: intPtr(quality),
	}
	data, err := page.Screenshot(true, req)
	if err != nil {
		return nil, fmt.Errorf("page screenshot: %w", err)
	}
	return data, nil
}

func float64Ptr(value float64) *float64 {
	return &value
}

func intPtr(value int) *int {
	return &value
}
