package ecovacssvc

import (
	"github.com/valetudo-ecovacs/roscore/internal/binary"
	"github.com/valetudo-ecovacs/roscore/model"
)

// DecodeWorkState decodes the work_state topic payload
// {worktype:u8, state:u8, workcause:u8} (spec.md §3).
func DecodeWorkState(payload []byte) (model.WorkState, error) {
	r := binary.NewReader(payload)
	workType, err := r.ReadU8()
	if err != nil {
		return model.WorkState{}, err
	}
	state, err := r.ReadU8()
	if err != nil {
		return model.WorkState{}, err
	}
	cause, err := r.ReadU8()
	if err != nil {
		return model.WorkState{}, err
	}
	return model.WorkState{
		WorkType:  model.WorkType(workType),
		State:     model.WorkLifecycleState(state),
		WorkCause: cause,
	}, nil
}

// DecodeChargeState decodes the charge_state topic payload
// {isOnCharger:u8, chargeState:u8} (spec.md §3).
func DecodeChargeState(payload []byte) (model.ChargeState, error) {
	r := binary.NewReader(payload)
	onCharger, err := r.ReadU8()
	if err != nil {
		return model.ChargeState{}, err
	}
	chargeState, err := r.ReadU8()
	if err != nil {
		return model.ChargeState{}, err
	}
	return model.ChargeState{
		IsOnCharger: onCharger,
		ChargeState: model.ChargeStateValue(chargeState),
	}, nil
}

// DecodeBattery decodes the battery topic payload, a single percentage
// byte (spec.md §3).
func DecodeBattery(payload []byte) (int, error) {
	v, err := binary.NewReader(payload).ReadU8()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// DecodeAlerts decodes the alerts topic payload, a count-prefixed list of
// {type:u16, state:u8} entries (spec.md §3: "Alert. {type:u16, state}"; the
// topic publishes the firmware's full current alert set on every update,
// not a delta, so the statemachine package always evaluates against the
// latest complete snapshot).
func DecodeAlerts(payload []byte) ([]model.Alert, error) {
	r := binary.NewReader(payload)
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	alerts := make([]model.Alert, 0, count)
	for i := uint16(0); i < count; i++ {
		alertType, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		state, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, model.Alert{Type: alertType, State: model.AlertState(state)})
	}
	return alerts, nil
}

// DecodePose decodes the robot pose topic payload
// {x:i16, y:i16, angleTenths:i16} into world millimeters and degrees
// (spec.md §3; shares position.go's angleScale convention). This is the
// vendor topic that requires safeResolve: registering it with the master
// in the normal way crashes a firmware daemon on this model.
func DecodePose(payload []byte) (model.Pose, error) {
	r := binary.NewReader(payload)
	x, err := r.ReadI16()
	if err != nil {
		return model.Pose{}, err
	}
	y, err := r.ReadI16()
	if err != nil {
		return model.Pose{}, err
	}
	angleTenths, err := r.ReadI16()
	if err != nil {
		return model.Pose{}, err
	}
	return model.Pose{
		X:            int(x),
		Y:            int(y),
		AngleDegrees: float64(angleTenths) / angleScale,
	}, nil
}
