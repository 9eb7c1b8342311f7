package usecase

import (
	"sync"
	"time"

	"github.com/lane-lab/kanvas/pkg/domain/interfaces"
	"github.com/lane-lab/kanvas/pkg/domain/model"
	"github.com/lane-lab/kanvas/pkg/domain/model/config"
	"github.com/lane-lab/kanvas/pkg/domain/types"
	boardsvc "github.com/lane-lab/kanvas/pkg/service/board"
	"github.com/lane-lab/kanvas/pkg/service/catalog"
)

const (
	// maxAutoLoadRecords caps how many records the paging guard loads
	// before building a board.
	maxAutoLoadRecords = 2500

	// searchDebounce delays applying the free-text search after input
	searchDebounce = 250 * time.Millisecond

	// dropGraceWindow suppresses clicks right after a drop
	dropGraceWindow = 300 * time.Millisecond

	// clickThresholdPx is the max pointer travel still counted as a click
	clickThresholdPx = 5.0

	maxNotices = 5
)

// Board is one board session: the single writer of its card/column
// state, filter state and drag state. All public methods are safe for
// interleaved calls from HTTP handlers.
type Board struct {
	mu sync.Mutex

	store     interfaces.RecordStore
	catalog   *catalog.Catalog
	cfg       *config.BoardConfig
	validator interfaces.MoveValidator
	projector *boardsvc.Projector
	pipeline  *boardsvc.Pipeline

	clock    func() time.Time
	debounce time.Duration

	// board state, replaced wholesale on every rebuild
	dataset       *model.Dataset
	views         []model.ViewDefinition
	active        model.ViewDefinition
	hasActive     bool
	stageByRecord map[types.RecordID]string
	projection    boardsvc.Projection
	built         boardsvc.Board

	// filter state
	filters model.FilterState
	sort    model.SortConfig
	search  string

	pendingSearch string
	searchTimer   *time.Timer

	// drag state
	drag     types.DragPhase
	lastDrop time.Time

	loading bool
	notices []string
}

// Option configures a Board session
type Option func(*Board)

// WithValidator sets the external move-validation hook
func WithValidator(v interfaces.MoveValidator) Option {
	return func(b *Board) {
		b.validator = v
	}
}

// WithClock injects the time source used for date filters, the search
// debounce and the post-drop grace window.
func WithClock(clock func() time.Time) Option {
	return func(b *Board) {
		b.clock = clock
	}
}

// WithSearchDebounce overrides the search debounce delay. Zero applies
// search input immediately.
func WithSearchDebounce(d time.Duration) Option {
	return func(b *Board) {
		b.debounce = d
	}
}

// New creates a board session over the given store. cfg may be nil.
func New(store interfaces.RecordStore, cfg *config.BoardConfig, opts ...Option) *Board {
	if cfg == nil {
		cfg = &config.BoardConfig{}
	}
	b := &Board{
		store:    store,
		cfg:      cfg,
		clock:    time.Now,
		debounce: searchDebounce,
		filters:  model.FilterState{},
		drag:     types.DragIdle,
	}
	for _, opt := range opts {
		opt(b)
	}

	b.catalog = catalog.New(store, catalog.WithStageOrder(cfg.StageOrder))
	b.projector = boardsvc.NewProjector(cfg)
	b.pipeline = boardsvc.NewPipeline(cfg, b.clock)
	return b
}

// Config returns the session's typed configuration
func (b *Board) Config() *config.BoardConfig {
	return b.cfg
}

func (b *Board) notifyLocked(msg string) {
	b.notices = append(b.notices, msg)
	if len(b.notices) > maxNotices {
		b.notices = b.notices[len(b.notices)-maxNotices:]
	}
}
