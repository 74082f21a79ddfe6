package views

import (
	"context"
	"errors"
	"strings"
	"sync"

	"bookbuster/internal/api"
	"bookbuster/internal/membership"
	"bookbuster/internal/view"
)

// ErrReasonTooShort rejects a rejection reason under four characters. The
// form blocks submission before the network sees it.
var ErrReasonTooShort = errors.New("el motivo debe tener al menos 4 caracteres")

// RequestsView is the registration-requests queue for elevated operators.
type RequestsView struct {
	view.Lifecycle

	client *api.Client

	mu       sync.Mutex
	requests []membership.RegistrationRequest
}

// NewRequestsView creates the controller.
func NewRequestsView(client *api.Client) *RequestsView {
	return &RequestsView{client: client}
}

// Refresh fetches the queue.
func (v *RequestsView) Refresh(ctx context.Context) error {
	fctx, token, err := v.BeginFetch(ctx)
	if err != nil {
		return err
	}

	requests, err := v.client.Requests(fctx)
	if !v.FinishFetch(token, err) {
		return nil
	}
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.requests = requests
	v.mu.Unlock()
	return nil
}

// Requests returns the whole queue.
func (v *RequestsView) Requests() []membership.RegistrationRequest {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]membership.RegistrationRequest, len(v.requests))
	copy(out, v.requests)
	return out
}

// Pending returns only the undecided requests.
func (v *RequestsView) Pending() []membership.RegistrationRequest {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []membership.RegistrationRequest
	for _, r := range v.requests {
		if r.Estado == membership.RequestPending {
			out = append(out, r)
		}
	}
	return out
}

// Approve converts a pending request into a member account server-side.
func (v *RequestsView) Approve(ctx context.Context, id string) error {
	if err := v.BeginMutation(); err != nil {
		return err
	}
	err := v.client.ApproveRequest(ctx, id)
	if err == nil {
		v.setEstado(id, membership.RequestApproved)
	}
	v.EndMutation()
	return err
}

// Reject declines a pending request. The reason must carry at least four
// characters after trimming.
func (v *RequestsView) Reject(ctx context.Context, id, motivo string) error {
	if len(strings.TrimSpace(motivo)) < 4 {
		return ErrReasonTooShort
	}
	if err := v.BeginMutation(); err != nil {
		return err
	}
	err := v.client.RejectRequest(ctx, id, motivo)
	if err == nil {
		v.setEstado(id, membership.RequestRejected)
	}
	v.EndMutation()
	return err
}

func (v *RequestsView) setEstado(id, estado string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.requests {
		if v.requests[i].ID == id {
			v.requests[i].Estado = estado
		}
	}
}
