package roscore

import "github.com/valetudo-ecovacs/roscore/model"

// These descriptors name every ROS service and topic the core resolves.
// MD5Sum is "*" throughout: per spec.md §4.1, the TCPROS handshake only
// validates the server response for an explicit error field, so the
// client-side md5sum need not match any particular message definition.
const wildcardMD5 = "*"

func serviceDesc(path string) model.EndpointDescriptor {
	return model.EndpointDescriptor{Path: path, TypeName: path, MD5Sum: wildcardMD5, CandidateNames: []string{path}}
}

var (
	descGetActiveMapID  = serviceDesc("/get_mapid")
	descGetCompressedMap = serviceDesc("/get_map_compress")
	descGetRooms         = serviceDesc("/get_roomlist")
	descSetRoomConfig    = serviceDesc("/set_roomconfig")
	descGetVirtualWalls  = serviceDesc("/get_virtualwall")
	descSetVirtualWall   = serviceDesc("/set_virtualwall")
	descWorkManage       = serviceDesc("/manual_ctrl")
	descSetting          = serviceDesc("/set_clean_param")
	descLifespan         = serviceDesc("/get_lifespan")
	descPosition         = serviceDesc("/get_position")
	descTrace            = serviceDesc("/get_trace")
	descStatistics       = serviceDesc("/get_statistics")
)

// descPose is the robot pose topic. spec.md §4.5: candidates are tried in
// order, the first with a live publisher wins, and resolution must use
// safeResolve (registering it normally crashes a firmware daemon).
var descPose = model.EndpointDescriptor{
	Path:           "/prediction/pose",
	TypeName:       "prediction/pose",
	MD5Sum:         wildcardMD5,
	CandidateNames: []string{"/prediction/UpdatePose", "/prediction/PredictPose", "/prediction/Pose"},
}

var (
	descWorkState   = topicDesc("/work_state")
	descChargeState = topicDesc("/charge_state")
	descAlerts      = topicDesc("/alerts")
	descBattery     = topicDesc("/battery_percentage")
)

func topicDesc(path string) model.EndpointDescriptor {
	return model.EndpointDescriptor{Path: path, TypeName: path, MD5Sum: wildcardMD5, CandidateNames: []string{path}}
}
