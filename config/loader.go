// Package config provides a convenience loader for model.Config, layering
// defaults, an optional YAML file, and environment variables. Loading
// configuration is explicitly out of scope for the core itself (spec.md
// §1); this package exists only for cmd/roscored's standalone demo binary,
// grounded on the koanf-based loader pattern used elsewhere in the
// dependency pack (defaults via confmap.Provider, then file.Provider, then
// env.Provider, each layered over the same *koanf.Koanf).
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"github.com/valetudo-ecovacs/roscore/model"
)

// EnvPrefix is the environment variable prefix recognized by Load, e.g.
// ROSCORE_ROSMASTERURI overrides rosMasterUri.
const EnvPrefix = "ROSCORE_"

// defaultPaths are searched, in order, for a YAML config file when no
// explicit path is given.
var defaultPaths = []string{
	"roscore.yaml",
	"/etc/roscore/roscore.yaml",
}

// Load builds a model.Config by layering model.Defaults() under an optional
// YAML file (configPath, or the first of defaultPaths that exists) and
// environment variables prefixed with EnvPrefix. Config file and
// ROSCORE_-prefixed env var keys are the lower-cased Config field names,
// e.g. "rosmasteruri" / ROSCORE_ROSMASTERURI for ROSMasterURI.
func Load(configPath string) (model.Config, error) {
	k := koanf.New(".")

	defaults := model.Defaults()
	if err := k.Load(confmap.Provider(defaultsMap(defaults), "."), nil); err != nil {
		return model.Config{}, errors.Wrap(err, "load config defaults")
	}

	path := configPath
	if path == "" {
		path = firstExisting(defaultPaths)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return model.Config{}, errors.Wrapf(err, "load config file %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyTransform), nil); err != nil {
		return model.Config{}, errors.Wrap(err, "load config environment overrides")
	}

	return unmarshalConfig(k), nil
}

// unmarshalConfig reads each key back out of k explicitly rather than via
// koanf's reflective Unmarshal, since model.Config intentionally carries no
// koanf struct tags (spec.md §1: the model package stays free of loader
// detail so capability adapters can import it standalone).
func unmarshalConfig(k *koanf.Koanf) model.Config {
	return model.Config{
		ROSMasterURI:      k.String("rosmasteruri"),
		ROSCallerID:       k.String("roscallerid"),
		ROSConnectTimeout: k.Duration("rosconnecttimeout"),
		ROSCallTimeout:    k.Duration("roscalltimeout"),
		ROSDebug:          k.Bool("rosdebug"),

		MdsctlSocketPath: k.String("mdsctlsocketpath"),
		MdsctlTimeout:    k.Duration("mdsctltimeout"),

		ManualControlSessionCode: k.String("manualcontrolsessioncode"),

		DetailedMapRotationDegrees: model.RotationDegrees(k.Int("detailedmaprotationdegrees")),
		DetailedMapWorldMmPerPixel: k.Float64("detailedmapworldmmperpixel"),
		DetailedMapMaxLayerPixels:  k.Int("detailedmapmaxlayerpixels"),
		DetailedMapMinFloorPixels:  k.Int("detailedmapminfloorpixels"),
		DetailedMapRefreshInterval: k.Duration("detailedmaprefreshinterval"),

		LivePositionPollInterval:     k.Duration("livepositionpollinterval"),
		PowerStatePollInterval:       k.Duration("powerstatepollinterval"),
		CleaningSettingsPollInterval: k.Duration("cleaningsettingspollinterval"),

		PowerStateStaleAfter: k.Duration("powerstatestaleafter"),
		WorkStateStaleAfter:  k.Duration("workstatestaleafter"),

		TracePathEnabled:   k.Bool("tracepathenabled"),
		TracePointUnitMm:   k.Int("tracepointunitmm"),
		TracePathMaxPoints: k.Int("tracepathmaxpoints"),
		TraceTailEntries:   k.Int("tracetailentries"),

		RuntimeStateCachePath:             k.String("runtimestatecachepath"),
		RuntimeStateCacheWriteMinInterval: k.Duration("runtimestatecachewritemininterval"),
	}
}

func envKeyTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// defaultsMap flattens model.Config's documented defaults into the
// dotted-key map koanf expects. Field names are lower-cased to match
// envKeyTransform and a typical YAML document's keys.
func defaultsMap(c model.Config) map[string]interface{} {
	return map[string]interface{}{
		"rosmasteruri":       c.ROSMasterURI,
		"roscallerid":        c.ROSCallerID,
		"rosconnecttimeout":  c.ROSConnectTimeout,
		"roscalltimeout":     c.ROSCallTimeout,
		"rosdebug":           c.ROSDebug,

		"mdsctlsocketpath": c.MdsctlSocketPath,
		"mdsctltimeout":    c.MdsctlTimeout,

		"manualcontrolsessioncode": c.ManualControlSessionCode,

		"detailedmaprotationdegrees": int(c.DetailedMapRotationDegrees),
		"detailedmapworldmmperpixel": c.DetailedMapWorldMmPerPixel,
		"detailedmapmaxlayerpixels":  c.DetailedMapMaxLayerPixels,
		"detailedmapminfloorpixels":  c.DetailedMapMinFloorPixels,
		"detailedmaprefreshinterval": c.DetailedMapRefreshInterval,

		"livepositionpollinterval":     c.LivePositionPollInterval,
		"powerstatepollinterval":       c.PowerStatePollInterval,
		"cleaningsettingspollinterval": c.CleaningSettingsPollInterval,

		"powerstatestaleafter": c.PowerStateStaleAfter,
		"workstatestaleafter":  c.WorkStateStaleAfter,

		"tracepathenabled":   c.TracePathEnabled,
		"tracepointunitmm":   c.TracePointUnitMm,
		"tracepathmaxpoints": c.TracePathMaxPoints,
		"tracetailentries":   c.TraceTailEntries,

		"runtimestatecachepath":             c.RuntimeStateCachePath,
		"runtimestatecachewritemininterval": c.RuntimeStateCacheWriteMinInterval,
	}
}
