// Package uiautomator2 resolves wire selectors to elements on an Android
// device through the UIAutomator2 server.
package uiautomator2

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devicelab-dev/patrol-runner/pkg/contracts"
	"github.com/devicelab-dev/patrol-runner/pkg/core"
	"github.com/devicelab-dev/patrol-runner/pkg/logger"
	"github.com/devicelab-dev/patrol-runner/pkg/selector"
	"github.com/devicelab-dev/patrol-runner/pkg/uiautomator2"
)

// UIA2Client defines the interface for UIAutomator2 client operations.
// Implemented by uiautomator2.Client. Allows mocking in tests.
type UIA2Client interface {
	FindElement(strategy, selector string) (*uiautomator2.Element, error)
	FindElements(strategy, selector string) ([]*uiautomator2.Element, error)
	Source() (string, error)
}

// DefaultFindTimeout is how long FindElement polls, in milliseconds.
const DefaultFindTimeout = 17000

// pollInterval separates attempts when the server answers immediately.
const pollInterval = 100 * time.Millisecond

// Driver locates elements for wire selectors.
type Driver struct {
	client UIA2Client

	// Timeouts (0 = use defaults)
	findTimeout int // ms
}

// New creates a new UIAutomator2 driver.
func New(client UIA2Client) *Driver {
	return &Driver{client: client}
}

// SetFindTimeout sets the timeout for finding elements.
// Useful for testing with shorter timeouts.
func (d *Driver) SetFindTimeout(ms int) {
	d.findTimeout = ms
}

func (d *Driver) timeout() time.Duration {
	ms := DefaultFindTimeout
	if d.findTimeout > 0 {
		ms = d.findTimeout
	}
	return time.Duration(ms) * time.Millisecond
}

// FindElement returns the element sel points to, polling until it appears
// or the find timeout (or ctx) expires.
//
// The direct query is tried first; instance, if present, then picks among
// its matches. Selectors the direct form cannot express (empty, or instance
// as the only usable field) fall back to the index query.
func (d *Driver) FindElement(ctx context.Context, sel contracts.Selector) (*uiautomator2.Element, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout())
	defer cancel()

	var lastErr error
	for {
		elem, err := d.findElementOnce(sel)
		if err == nil {
			return elem, nil
		}
		if !retryable(err) {
			return nil, err
		}
		lastErr = err

		select {
		case <-ctx.Done():
			logger.Warn("element %s not found: %v", sel.Describe(), lastErr)
			return nil, fmt.Errorf("%s: %w", ctx.Err(), lastErr)
		case <-time.After(pollInterval):
		}
	}
}

// FindElements returns every element matching sel, without waiting.
// Instance is not applied; selectors that cannot be expressed as a direct
// query are rejected.
func (d *Driver) FindElements(_ context.Context, sel contracts.Selector) ([]*uiautomator2.Element, error) {
	query, err := selector.ToDirectQuery(sel)
	if err != nil {
		return nil, err
	}
	return d.client.FindElements(uiautomator2.StrategyXPath, query.XPath())
}

// FindInSource resolves sel against a single page source snapshot.
func (d *Driver) FindInSource(sel contracts.Selector) (*ParsedElement, error) {
	source, err := d.client.Source()
	if err != nil {
		return nil, err
	}
	elements, err := ParsePageSource(source)
	if err != nil {
		return nil, err
	}
	return Resolve(elements, sel)
}

// findElementOnce makes a single lookup attempt.
func (d *Driver) findElementOnce(sel contracts.Selector) (*uiautomator2.Element, error) {
	query, err := selector.ToDirectQuery(sel)
	if err != nil {
		if errors.Is(err, core.ErrSelectorEmpty) || errors.Is(err, core.ErrInstanceUnsupported) {
			logger.Debug("falling back to index query for %s: %v", sel.Describe(), err)
			return d.client.FindElement(uiautomator2.StrategyUiAutomator, selector.ToIndexQuery(sel).String())
		}
		return nil, err
	}

	elems, err := d.client.FindElements(uiautomator2.StrategyXPath, query.XPath())
	if err != nil {
		return nil, err
	}

	index := 0
	if sel.Instance != nil {
		index = *sel.Instance
	}
	if index < 0 || index >= len(elems) {
		return nil, core.ErrElementNotFound.WithDetails(map[string]interface{}{
			"selector": sel.Describe(),
			"matches":  len(elems),
		})
	}
	return elems[index], nil
}

// retryable reports whether another attempt could succeed.
func retryable(err error) bool {
	var execErr *core.ExecutionError
	if errors.As(err, &execErr) {
		return !execErr.Category.IsCallerError()
	}
	return true
}
