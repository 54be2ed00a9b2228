package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mosawalhi7/passweaver/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "pwv"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName  = "output"
	rulesFlagName   = "rules"
	verboseFlagName = "verbose"
	logFileFlagName = "log-file"

	limitFlagName         = "limit"
	minLengthFlagName     = "min-length"
	maxLengthFlagName     = "max-length"
	requireUpperFlagName  = "require-uppercase"
	requireSymbolFlagName = "require-symbol"

	sessionDBKey          = "session.db"
	checkpointIntervalKey = "session.checkpoint_interval"

	limitConfigKey         = "generate.limit"
	minLengthConfigKey     = "generate.min_length"
	maxLengthConfigKey     = "generate.max_length"
	requireUpperConfigKey  = "generate.require_uppercase"
	requireSymbolConfigKey = "generate.require_symbol"

	leetPolicyKey    = "leet.policy"
	leetDepthKey     = "leet.depth"
	symbolsKey       = "symbols"
	commonNumbersKey = "common_numbers"

	defaultOutputDir          = "wordlists"
	defaultRulesPath          = "rules.txt"
	defaultSessionDB          = ".pwv/sessions.db"
	defaultCheckpointInterval = domain.DefaultCheckpointInterval
	defaultLimit              = 1000000
	defaultMinLength          = 8
	defaultMaxLength          = 0

	envPrefix = "PWV"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".pwv.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// defaultSymbols and defaultCommonNumbers seed the symbol and
// common_number rule axes; both are overridable in pwv.yaml.
var defaultSymbols = []string{"@", "#", "$", "%", "!", "&", "*", "-", "_"}

var defaultCommonNumbers = []string{
	"1", "2", "3", "4", "5", "6", "7", "8", "9", "0",
	"123", "1234", "12345", "123456",
	"321", "4321", "54321",
	"123321", "12344321", "1234554321",
	"2020", "2021", "2022", "2023", "2024", "2025", "2026",
}

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultOutputDir)
	viper.SetDefault(rulesFlagName, defaultRulesPath)
	viper.SetDefault(sessionDBKey, defaultSessionDB)
	viper.SetDefault(checkpointIntervalKey, defaultCheckpointInterval)
	viper.SetDefault(limitConfigKey, defaultLimit)
	viper.SetDefault(minLengthConfigKey, defaultMinLength)
	viper.SetDefault(maxLengthConfigKey, defaultMaxLength)
	viper.SetDefault(requireUpperConfigKey, false)
	viper.SetDefault(requireSymbolConfigKey, false)
	viper.SetDefault(leetPolicyKey, string(domain.LeetProgressive))
	viper.SetDefault(leetDepthKey, domain.DefaultLeetDepth)
	viper.SetDefault(symbolsKey, defaultSymbols)
	viper.SetDefault(commonNumbersKey, defaultCommonNumbers)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		// A present but unreadable config file should not be silent.
		fmt.Fprintf(os.Stderr, "warning: could not read %s: %v\n", configFileName, err)
	}
}

// engineConfig builds the combination engine settings from the effective
// configuration.
func engineConfig() domain.EngineConfig {
	return domain.EngineConfig{
		Symbols:       viper.GetStringSlice(symbolsKey),
		CommonNumbers: viper.GetStringSlice(commonNumbersKey),
		LeetPolicy:    domain.LeetPolicy(viper.GetString(leetPolicyKey)),
		LeetDepth:     viper.GetInt(leetDepthKey),
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
