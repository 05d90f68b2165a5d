package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"emlak-scraper/utils"
)

// queryJS evaluates an XPath against the live document and returns either the
// visible text or the named attribute of every match. Properties win over
// attributes so href/src come back as absolute URLs.
const queryJS = `
(function(xp, attr) {
	var snap = document.evaluate(xp, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
	var out = [];
	for (var i = 0; i < snap.snapshotLength; i++) {
		var n = snap.snapshotItem(i);
		var v;
		if (attr) {
			v = (typeof n[attr] === 'string') ? n[attr] : (n.getAttribute ? n.getAttribute(attr) : null);
		} else {
			v = (typeof n.innerText === 'string') ? n.innerText : n.textContent;
		}
		out.push(v == null ? '' : String(v).trim());
	}
	return out;
})(%s, %s)
`

const clickJS = `
(function(xp) {
	var n = document.evaluate(xp, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	if (!n) return false;
	if (n.scrollIntoView) n.scrollIntoView({block: 'center'});
	n.click();
	return true;
})(%s)
`

// SessionOptions configures the Chrome process behind a ChromePage.
type SessionOptions struct {
	Headless  bool
	ChromeBin string
	UserAgent string
}

// ChromePage implements Page on a single chromedp tab.
type ChromePage struct {
	ctx    context.Context
	logger *utils.Logger
}

// NewChromeSession launches Chrome and opens one tab. The returned function
// terminates the browser and must be called once the run is over.
func NewChromeSession(parent context.Context, opts SessionOptions, logger *utils.Logger) (*ChromePage, func(), error) {
	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(1920, 1080),
	)
	if opts.UserAgent != "" {
		execOpts = append(execOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if bin := utils.FindChromeBinary(opts.ChromeBin); bin != "" {
		logger.Info("[browser] Using browser binary: %s", bin)
		execOpts = append(execOpts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, execOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			logger.Debug("[chromedp] "+format, args...)
		}),
	)

	closeFn := func() {
		cancelTab()
		cancelAlloc()
	}

	// An empty Run starts the browser so launch failures surface here.
	if err := chromedp.Run(tabCtx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("browser: start session: %w", err)
	}

	return &ChromePage{ctx: tabCtx, logger: logger}, closeFn, nil
}

// tab binds the caller's deadline and cancellation to the browser tab.
func (p *ChromePage) tab(ctx context.Context) (context.Context, context.CancelFunc) {
	tabCtx, cancel := context.WithCancel(p.ctx)
	stop := context.AfterFunc(ctx, cancel)
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		tabCtx, cancelDeadline = context.WithDeadline(tabCtx, deadline)
		return tabCtx, func() {
			stop()
			cancelDeadline()
			cancel()
		}
	}
	return tabCtx, func() {
		stop()
		cancel()
	}
}

func (p *ChromePage) Navigate(ctx context.Context, url string) error {
	tabCtx, cancel := p.tab(ctx)
	defer cancel()

	if err := chromedp.Run(tabCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	return nil
}

func (p *ChromePage) Texts(ctx context.Context, locator string) ([]string, error) {
	return p.query(ctx, locator, "")
}

func (p *ChromePage) Attrs(ctx context.Context, locator, attr string) ([]string, error) {
	return p.query(ctx, locator, attr)
}

func (p *ChromePage) Exists(ctx context.Context, locator string) (bool, error) {
	vals, err := p.query(ctx, locator, "")
	if err != nil {
		return false, err
	}
	return len(vals) > 0, nil
}

func (p *ChromePage) Click(ctx context.Context, locator string) error {
	tabCtx, cancel := p.tab(ctx)
	defer cancel()

	var clicked bool
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(fmt.Sprintf(clickJS, jsString(locator)), &clicked)); err != nil {
		return fmt.Errorf("browser: click %s: %w", locator, err)
	}
	if !clicked {
		return fmt.Errorf("browser: click %s: %w", locator, ErrNotFound)
	}
	return nil
}

func (p *ChromePage) WaitFor(ctx context.Context, locator string, timeout time.Duration) error {
	tabCtx, cancel := p.tab(ctx)
	defer cancel()

	waitCtx, cancelWait := context.WithTimeout(tabCtx, timeout)
	defer cancelWait()

	err := chromedp.Run(waitCtx, chromedp.WaitReady(locator, chromedp.BySearch))
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("browser: wait %s (%v): %w", locator, timeout, ErrNotReady)
	}
	return fmt.Errorf("browser: wait %s: %w", locator, err)
}

func (p *ChromePage) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func (p *ChromePage) query(ctx context.Context, locator, attr string) ([]string, error) {
	tabCtx, cancel := p.tab(ctx)
	defer cancel()

	attrArg := "null"
	if attr != "" {
		attrArg = jsString(attr)
	}

	var vals []string
	expr := fmt.Sprintf(queryJS, jsString(locator), attrArg)
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(expr, &vals)); err != nil {
		return nil, fmt.Errorf("browser: evaluate %s: %w", locator, err)
	}
	return vals, nil
}

// jsString renders s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
