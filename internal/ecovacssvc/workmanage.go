package ecovacssvc

import (
	"context"

	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/internal/rosnet"
	"github.com/valetudo-ecovacs/roscore/model"
)

// WorkManageService drives the cleaning lifecycle control verbs from
// spec.md §4.6: one operation per verb, each a thin request/response
// codec over a single service client.
type WorkManageService struct {
	client rosnet.ServiceClient
}

// NewWorkManageService builds a WorkManageService over client.
func NewWorkManageService(client rosnet.ServiceClient) *WorkManageService {
	return &WorkManageService{client: client}
}

func (s *WorkManageService) call(ctx context.Context, req *binary.Writer) error {
	resp, err := s.client.Call(ctx, req.Bytes())
	if err != nil {
		return err
	}
	return decodeStatusResult(resp)
}

// StartAuto begins an automatic full-coverage clean.
func (s *WorkManageService) StartAuto(ctx context.Context) error {
	w := binary.NewWriter()
	w.WriteU8(uint8(model.WorkTypeAuto))
	return s.call(ctx, w)
}

// Stop halts the current work entirely.
func (s *WorkManageService) Stop(ctx context.Context) error {
	w := binary.NewWriter()
	return s.call(ctx, w)
}

// Pause suspends the current work, which resumes at workType.
func (s *WorkManageService) Pause(ctx context.Context, workType model.WorkType) error {
	w := binary.NewWriter()
	w.WriteU8(uint8(workType))
	return s.call(ctx, w)
}

// Resume continues a previously-paused work of workType.
func (s *WorkManageService) Resume(ctx context.Context, workType model.WorkType) error {
	w := binary.NewWriter()
	w.WriteU8(uint8(workType))
	return s.call(ctx, w)
}

// ReturnToDock sends the robot home.
func (s *WorkManageService) ReturnToDock(ctx context.Context) error {
	w := binary.NewWriter()
	w.WriteU8(uint8(model.WorkTypeReturn))
	return s.call(ctx, w)
}

// AutoCollectDirt triggers a dock auto-empty cycle.
func (s *WorkManageService) AutoCollectDirt(ctx context.Context) error {
	w := binary.NewWriter()
	return s.call(ctx, w)
}

// StartRoomClean begins cleaning the given set of rooms, identified by
// areaid.
func (s *WorkManageService) StartRoomClean(ctx context.Context, areaIDs []model.AreaID) error {
	w := binary.NewWriter()
	w.WriteU8(uint8(len(areaIDs)))
	for _, id := range areaIDs {
		w.WriteU32(uint32(id))
	}
	return s.call(ctx, w)
}

// CleanRect is a custom-clean rectangle in world millimeters.
type CleanRect struct {
	X1, Y1, X2, Y2 int
}

// StartCustomClean begins cleaning the given list of world-space
// rectangles.
func (s *WorkManageService) StartCustomClean(ctx context.Context, rects []CleanRect) error {
	w := binary.NewWriter()
	w.WriteU8(uint8(len(rects)))
	for _, rect := range rects {
		w.WriteI16(int16(rect.X1))
		w.WriteI16(int16(rect.Y1))
		w.WriteI16(int16(rect.X2))
		w.WriteI16(int16(rect.Y2))
	}
	return s.call(ctx, w)
}

// RemoteMove issues one manual-control movement command. w is the signed
// angular velocity and is only meaningful for moveType values that rotate
// the robot; pass nil when not applicable.
func (s *WorkManageService) RemoteMove(ctx context.Context, moveType uint8, w *int16) error {
	req := binary.NewWriter()
	req.WriteU8(moveType)
	hasW := uint8(0)
	if w != nil {
		hasW = 1
	}
	req.WriteU8(hasW)
	if w != nil {
		req.WriteI16(*w)
	}
	return s.call(ctx, req)
}
