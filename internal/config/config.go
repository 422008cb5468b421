package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lambdcalculus/pairq/pkg/duration"
	"github.com/lambdcalculus/pairq/pkg/logger"
)

type Server struct {
	Name      string `toml:"name"`
	PortWS    int    `toml:"ws_port"`
	PortRPC   int    `toml:"rpc_port"`
	MaxQueued int    `toml:"max_queued"`
	Database  string `toml:"database"`

	// How long a finished job's row is kept around before cleanup, in the
	// extended duration syntax ("3d", "1w", ...).
	RetentionString string `toml:"retention"`

	LevelString string   `toml:"log_level"`
	LogOutputs  []string `toml:"log_outputs"`
}

func ServerDefault() *Server {
	return &Server{
		Name:            "Unnamed Queue",
		PortWS:          8080,
		PortRPC:         8082,
		MaxQueued:       10000,
		Database:        "pairq.sqlite",
		RetentionString: "1w",
		LevelString:     "info",
		LogOutputs:      []string{"stdout"},
	}
}

var StringToLevel = map[string]logger.LogLevel{
	"trace": logger.LevelTrace,
	"debug": logger.LevelDebug,
	"info":  logger.LevelInfo,
	"warn":  logger.LevelWarning,
	"error": logger.LevelError,
	"fatal": logger.LevelFatal,
}

// Retention parses the configured retention period, falling back to the
// default when it doesn't parse.
func (s *Server) Retention() time.Duration {
	d, err := duration.Parse(s.RetentionString)
	if err != nil {
		logger.Warnf("config: Bad retention %q (%v). Using the default.", s.RetentionString, err)
		d, _ = duration.Parse(ServerDefault().RetentionString)
	}
	return d
}

// Attempts to read the server configuration. Returns default settings if it
// fails.
func ReadServer() (*Server, error) {
	execDir, err := ExecDir()
	if err != nil {
		return ServerDefault(), fmt.Errorf("config: Couldn't find executable location (%w). Can't read configs.", err)
	}
	configDir := execDir + "/config"

	srvConfig := ServerDefault()
	if _, err := toml.DecodeFile(configDir+"/config.toml", srvConfig); err != nil {
		return srvConfig, fmt.Errorf("config: Couldn't read server config (%w).", err)
	}

	return srvConfig, nil
}

// Returns the absolute path to the executable's directory, if it doesn't fail.
func ExecDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return path.Dir(execPath), nil
}
