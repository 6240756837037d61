// Package roscore implements the orchestrator described in spec.md §4.11:
// it wires the ROS transport, vendor service codecs, and map pipeline
// together behind the upward API of spec.md §6, scheduling the four
// polling loops under one workgroup.Group and publishing change events on
// a buffered channel. Grounded on the teacher's internal/contour.Contour
// (one struct owning every translator, driven by one EventHandler loop,
// publishing to one xDS cache) generalized from Kubernetes watch events to
// ROS topic/service polling.
package roscore

import (
	"context"
	"sync"
	"time"

	"github.com/valetudo-ecovacs/roscore/internal/ecovacssvc"
	"github.com/valetudo-ecovacs/roscore/internal/mdsctl"
	"github.com/valetudo-ecovacs/roscore/internal/rlog"
	"github.com/valetudo-ecovacs/roscore/internal/roserr"
	"github.com/valetudo-ecovacs/roscore/internal/rosmetrics"
	"github.com/valetudo-ecovacs/roscore/internal/rosnet"
	"github.com/valetudo-ecovacs/roscore/internal/statecache"
	"github.com/valetudo-ecovacs/roscore/internal/workgroup"
	"github.com/valetudo-ecovacs/roscore/internal/xmlrpc"
	"github.com/valetudo-ecovacs/roscore/model"
)

// allStatuses lists every model.Status value, used to zero the runtime
// status gauge's unselected labels on every update.
var allStatuses = []string{
	string(model.StatusIdle),
	string(model.StatusCleaning),
	string(model.StatusPaused),
	string(model.StatusReturning),
	string(model.StatusManualControl),
	string(model.StatusMoving),
	string(model.StatusDocked),
	string(model.StatusError),
}

// Core is the ROS client subsystem plus map pipeline: the single entry
// point an external orchestration layer embeds to talk to the robot.
type Core struct {
	cfg     model.Config
	log     rlog.Logger
	metrics *rosmetrics.Metrics

	master *xmlrpc.MasterClient

	mapSvc         *ecovacssvc.MapService
	spotAreaSvc    *ecovacssvc.SpotAreaService
	virtualWallSvc *ecovacssvc.VirtualWallService
	workManageSvc  *ecovacssvc.WorkManageService
	settingSvc     *ecovacssvc.SettingService
	lifespanSvc    *ecovacssvc.LifespanService
	positionSvc    *ecovacssvc.PositionService
	traceSvc       *ecovacssvc.TraceService
	statisticsSvc  *ecovacssvc.StatisticsService
	mdsctlClient   *mdsctl.Client

	workStateTopic   *rosnet.TopicSubscriber[model.WorkState]
	chargeStateTopic *rosnet.TopicSubscriber[model.ChargeState]
	alertsTopic      *rosnet.TopicSubscriber[[]model.Alert]
	batteryTopic     *rosnet.TopicSubscriber[int]
	poseTopic        *rosnet.TopicSubscriber[model.Pose]

	cache    *statecache.Cache
	traceBuf *traceBuffer

	events chan model.Event

	mu                     sync.Mutex
	activeMapID            uint32
	haveActiveMapID        bool
	lastMap                *model.Map
	mapCachedAt            time.Time
	lastDerived            model.DerivedStatus
	haveLastDerived        bool
	lastSettings           model.Settings
	haveLastSettings       bool
	labelNames             map[uint8]string
	manualControlSessionID string
}

// New builds a Core from cfg. No network activity happens until Run is
// called; Run resolves endpoints lazily on first use of each client.
func New(cfg model.Config, log rlog.Logger, metrics *rosmetrics.Metrics) *Core {
	master := xmlrpc.NewMasterClient(cfg.ROSMasterURI, cfg.ROSCallerID, cfg.ROSConnectTimeout)

	persistent := func(desc model.EndpointDescriptor) rosnet.ServiceClient {
		return rosnet.NewPersistentServiceClient(master, desc, cfg.ROSCallerID, cfg.ROSConnectTimeout, cfg.ROSCallTimeout)
	}
	ephemeral := func(desc model.EndpointDescriptor) rosnet.ServiceClient {
		return rosnet.NewEphemeralServiceClient(master, desc, cfg.ROSCallerID, cfg.ROSConnectTimeout, cfg.ROSCallTimeout)
	}

	c := &Core{
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		master:  master,

		mapSvc:         ecovacssvc.NewMapService(persistent(descGetActiveMapID), persistent(descGetCompressedMap)),
		spotAreaSvc:    ecovacssvc.NewSpotAreaService(persistent(descGetRooms), ephemeral(descSetRoomConfig)),
		virtualWallSvc: ecovacssvc.NewVirtualWallService(persistent(descGetVirtualWalls), ephemeral(descSetVirtualWall)),
		workManageSvc:  ecovacssvc.NewWorkManageService(ephemeral(descWorkManage)),
		settingSvc:     ecovacssvc.NewSettingService(persistent(descSetting)),
		lifespanSvc:    ecovacssvc.NewLifespanService(ephemeral(descLifespan)),
		positionSvc:    ecovacssvc.NewPositionService(persistent(descPosition)),
		traceSvc:       ecovacssvc.NewTraceService(persistent(descTrace), cfg.TracePointUnitMm, cfg.TraceTailEntries),
		statisticsSvc:  ecovacssvc.NewStatisticsService(ephemeral(descStatistics)),
		mdsctlClient:   mdsctl.New(cfg.MdsctlSocketPath, cfg.MdsctlTimeout),

		cache:      statecache.New(cfg.RuntimeStateCachePath, cfg.RuntimeStateCacheWriteMinInterval),
		traceBuf:   newTraceBuffer(cfg.TracePathMaxPoints),
		events:     make(chan model.Event, 32),
		labelNames: map[uint8]string{},
	}

	c.workStateTopic = rosnet.NewTopicSubscriber(master, descWorkState, cfg.ROSCallerID, cfg.ROSConnectTimeout, cfg.ROSCallTimeout, ecovacssvc.DecodeWorkState, false, log.WithPrefix("topic:work_state"))
	c.chargeStateTopic = rosnet.NewTopicSubscriber(master, descChargeState, cfg.ROSCallerID, cfg.ROSConnectTimeout, cfg.ROSCallTimeout, ecovacssvc.DecodeChargeState, false, log.WithPrefix("topic:charge_state"))
	c.alertsTopic = rosnet.NewTopicSubscriber(master, descAlerts, cfg.ROSCallerID, cfg.ROSConnectTimeout, cfg.ROSCallTimeout, ecovacssvc.DecodeAlerts, false, log.WithPrefix("topic:alerts"))
	c.batteryTopic = rosnet.NewTopicSubscriber(master, descBattery, cfg.ROSCallerID, cfg.ROSConnectTimeout, cfg.ROSCallTimeout, ecovacssvc.DecodeBattery, false, log.WithPrefix("topic:battery"))
	c.poseTopic = rosnet.NewTopicSubscriber(master, descPose, cfg.ROSCallerID, cfg.ROSConnectTimeout, cfg.ROSCallTimeout, ecovacssvc.DecodePose, true, log.WithPrefix("topic:pose"))

	return c
}

// SetLabelName registers a human-readable name for a room label id, used
// by the map builder's segment metadata (spec.md §4.8 step 5). The label
// table itself is out of scope (spec.md §1: capability adapters own it);
// Core only needs a lookup function at build time.
func (c *Core) SetLabelName(labelID uint8, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labelNames[labelID] = name
}

func (c *Core) labelName(labelID uint8) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.labelNames[labelID]
}

// Events returns the channel change events are published on. Callers
// should drain it continuously; Core drops an event rather than block if
// the channel is full.
func (c *Core) Events() <-chan model.Event {
	return c.events
}

func (c *Core) emit(ev model.Event) {
	c.metrics.EventsEmittedTotal.WithLabelValues(string(ev.Kind)).Inc()
	select {
	case c.events <- ev:
	default:
		c.log.V(1).Infof("event channel full, dropping %s", ev.Kind)
	}
}

// Run loads the persisted runtime cache and runs every polling loop and
// topic subscriber until ctx is canceled, flushing the runtime cache
// before returning (spec.md §5: "runtime cache is flushed" on shutdown).
func (c *Core) Run(ctx context.Context) error {
	if err := c.cache.Load(); err != nil {
		c.log.Errorf("load runtime cache: %v", err)
	}
	defer func() {
		if err := c.cache.Flush(); err != nil {
			c.log.Errorf("final runtime cache flush: %v", err)
		}
	}()

	var g workgroup.Group
	g.AddContext(c.workStateTopic.Run)
	g.AddContext(c.chargeStateTopic.Run)
	g.AddContext(c.alertsTopic.Run)
	g.AddContext(c.batteryTopic.Run)
	g.AddContext(c.poseTopic.Run)
	g.AddContext(c.runRuntimeStateLoop)
	g.AddContext(c.runSettingsLoop)
	g.AddContext(c.runLiveEntityLoop)
	g.AddContext(c.runMapLoop)
	return g.Run(ctx)
}

func errKind(err error) string {
	if err == nil {
		return ""
	}
	if kind := roserr.KindOf(err); kind != "" {
		return string(kind)
	}
	return "unknown"
}
