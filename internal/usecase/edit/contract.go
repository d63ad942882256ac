package edit

import (
	"context"

	"github.com/kailas-cloud/revisor/internal/domain"
	"github.com/kailas-cloud/revisor/internal/domain/document"
	"github.com/kailas-cloud/revisor/internal/domain/region"
	"github.com/kailas-cloud/revisor/internal/usecase/completion"
	"github.com/kailas-cloud/revisor/internal/usecase/locate"
)

// Completer runs a prompt with credential failover.
type Completer interface {
	Complete(ctx context.Context, prompt string, creds domain.Credentials, onFail completion.Observer) (string, error)
}

// Locator selects the regions a query points at.
type Locator interface {
	Locate(doc *document.Document, q locate.Query) ([]region.Region, error)
}
