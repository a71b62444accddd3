package recommender

import (
	"context"
	"sync"
	"testing"

	"github.com/prajjawal-kansara/AIdvisor/catalog"
	"github.com/prajjawal-kansara/AIdvisor/oracle"
)

type reply struct {
	text string
	err  error
}

// scriptedOracle answers calls in order and records every request.
type scriptedOracle struct {
	mu       sync.Mutex
	replies  []reply
	requests []oracle.Request
}

func newScriptedOracle(replies ...reply) *scriptedOracle {
	return &scriptedOracle{replies: replies}
}

func (o *scriptedOracle) Complete(ctx context.Context, req oracle.Request) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	i := len(o.requests)
	o.requests = append(o.requests, req)
	if i >= len(o.replies) {
		return "", context.DeadlineExceeded
	}
	return o.replies[i].text, o.replies[i].err
}

func (o *scriptedOracle) calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.requests)
}

func (o *scriptedOracle) request(i int) oracle.Request {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.requests[i]
}

// blockingOracle waits for ctx to end.
func blockingOracle() oracle.Oracle {
	return oracle.Func(func(ctx context.Context, _ oracle.Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
}

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() failed: %v", err)
	}
	return c
}

func testCatalog(t *testing.T, records ...catalog.ToolRecord) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(records)
	if err != nil {
		t.Fatalf("catalog.New() failed: %v", err)
	}
	return c
}

func tool(id int, name string, categories ...string) catalog.ToolRecord {
	return catalog.ToolRecord{
		ID:         id,
		Name:       name,
		Vendor:     "Vendor " + name,
		Categories: categories,
		Pricing:    catalog.Pricing{StartingPrice: 100, PricingModel: catalog.PricingSubscription},
		TechLevel:  "advanced",
	}
}

func intentWith(mutate func(*Intent)) Intent {
	in := DefaultIntent()
	mutate(&in)
	return in
}
