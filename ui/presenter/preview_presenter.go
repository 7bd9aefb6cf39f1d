package presenter

import (
	"context"
	"image"
	"sync"

	"log/slog"

	"github.com/soocke/timelapse-go/domain/capture"
	"github.com/soocke/timelapse-go/ui/images"
)

// FrameRelay supplies the most recent live frame.
type FrameRelay interface {
	Start(ctx context.Context, index int)
	Stop()
	Running() bool
	Err() error
	LatestFrame() capture.FrameSnapshot
}

// PreviewModel provides the preview flag.
type PreviewModel interface {
	Previewing() bool
	SetPreviewing(bool)
}

// PreviewView describes the UI surface updated by the presenter.
type PreviewView interface {
	UpdatePreview(img image.Image)
	PreviewReset()
	SetPreviewing(on bool)
	SetStatus(text string)
}

type scaledFrame struct {
	sequence uint64
	img      image.Image
}

// PreviewPresenter toggles the live feed and pushes relayed frames to the
// view. Scaling runs on a worker goroutine; the view is only touched from
// ProcessFrame on the UI thread.
type PreviewPresenter struct {
	ctx    context.Context
	relay  FrameRelay
	model  PreviewModel
	view   PreviewView
	index  int
	maxW   int
	maxH   int
	logger *slog.Logger

	workerOnce sync.Once
	workCh     chan capture.FrameSnapshot
	resultCh   chan scaledFrame

	lastSeq uint64
}

// NewPreviewPresenter constructs a preview presenter for device index.
func NewPreviewPresenter(ctx context.Context, relay FrameRelay, model PreviewModel, view PreviewView, index, maxW, maxH int, logger *slog.Logger) *PreviewPresenter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &PreviewPresenter{
		ctx:      ctx,
		relay:    relay,
		model:    model,
		view:     view,
		index:    index,
		maxW:     maxW,
		maxH:     maxH,
		logger:   logger,
		workCh:   make(chan capture.FrameSnapshot, 1),
		resultCh: make(chan scaledFrame, 1),
	}
}

func (p *PreviewPresenter) ready() bool {
	return p != nil && p.relay != nil && p.model != nil && p.view != nil
}

// Show starts the relay. Idempotent.
func (p *PreviewPresenter) Show() {
	if !p.ready() || p.model.Previewing() {
		return
	}
	p.ensureWorker()
	p.relay.Start(p.ctx, p.index)
	p.model.SetPreviewing(true)
	p.view.SetPreviewing(true)
}

// Hide stops the relay and clears the preview. Idempotent.
func (p *PreviewPresenter) Hide() {
	if !p.ready() || !p.model.Previewing() {
		return
	}
	p.relay.Stop()
	p.model.SetPreviewing(false)
	p.lastSeq = 0
	p.view.PreviewReset()
	p.view.SetPreviewing(false)
}

// Toggle flips the feed delegating to Show/Hide.
func (p *PreviewPresenter) Toggle() {
	if !p.ready() {
		return
	}
	if p.model.Previewing() {
		p.Hide()
		return
	}
	p.Show()
}

// ProcessFrame applies finished scaling results and dispatches the newest
// relayed frame. Call from the UI tick.
func (p *PreviewPresenter) ProcessFrame() {
	if !p.ready() {
		return
	}
	for {
		select {
		case res := <-p.resultCh:
			if p.model.Previewing() {
				p.view.UpdatePreview(res.img)
			}
			continue
		default:
		}
		break
	}
	if !p.model.Previewing() {
		return
	}
	if !p.relay.Running() {
		// The relay ended on its own (open or read failure).
		msg := "Camera feed stopped"
		if err := p.relay.Err(); err != nil {
			msg = "Camera feed stopped: " + err.Error()
		}
		p.model.SetPreviewing(false)
		p.lastSeq = 0
		p.view.SetPreviewing(false)
		p.view.SetStatus(msg)
		return
	}
	snap := p.relay.LatestFrame()
	if snap.Image == nil || snap.Sequence == 0 || snap.Sequence == p.lastSeq {
		return
	}
	p.lastSeq = snap.Sequence
	p.dispatch(snap)
}

func (p *PreviewPresenter) ensureWorker() {
	p.workerOnce.Do(func() {
		go p.runWorker()
	})
}

func (p *PreviewPresenter) runWorker() {
	for snap := range p.workCh {
		res := scaledFrame{sequence: snap.Sequence, img: images.ScaleToFit(snap.Image, p.maxW, p.maxH)}
		select {
		case p.resultCh <- res:
		default:
			select {
			case <-p.resultCh:
			default:
			}
			select {
			case p.resultCh <- res:
			default:
			}
		}
	}
}

// dispatch hands snap to the worker, replacing a frame still waiting.
func (p *PreviewPresenter) dispatch(snap capture.FrameSnapshot) {
	select {
	case p.workCh <- snap:
	default:
		select {
		case <-p.workCh:
		default:
		}
		select {
		case p.workCh <- snap:
		default:
		}
	}
}
