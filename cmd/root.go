// Root of command-line argument parsing.
// This file was based off the standard cobra template, see
// https://github.com/spf13/cobra
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cloudbulkupload/cloudbulk-go/common"
	"github.com/cloudbulkupload/cloudbulk-go/module"
)

var (
	cfgFile  string
	backend  string
	infoLog  string
	errorLog string
	logLevel int64

	// console logger for human readable progress and results; the SDK
	// itself logs structured JSON through common.InitLog.
	console = logrus.New()

	cfg *viper.Viper

	storageConfig *module.StorageConfig
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cloudbulk",
	Short: "Bulk transfer files between local disk and cloud object storage",
	Long: `cloudbulk fans file transfers out across a bounded worker pool and
delegates the actual network I/O to the vendor SDKs (S3, Azure Blob,
Google Cloud Storage, Huawei OBS).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		common.InitLog(infoLog, errorLog, logLevel)

		var err error
		storageConfig, err = loadStorageConfig()
		if err != nil {
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main. It only needs to happen once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func loadStorageConfig() (*module.StorageConfig, error) {
	// Private viper context so library importers keep their own.
	cfg = viper.New()

	cfg.SetDefault("backend", "s3")
	cfg.SetDefault("s3.region", module.DefaultS3Region)
	cfg.SetDefault("req-timeout", common.DefaultReqTimeout)
	cfg.SetDefault("max-connection", common.DefaultMaxConnection)

	// Order of precedence: flag, ENV, cloudbulk.yaml, default. The env
	// names match the ones the vendor tooling already uses.
	cfg.BindEnv("s3.access-key", "AWS_ACCESS_KEY_ID")
	cfg.BindEnv("s3.secret-key", "AWS_SECRET_ACCESS_KEY")
	cfg.BindEnv("s3.endpoint", "AWS_ENDPOINT_URL")
	cfg.BindEnv("s3.region", "AWS_DEFAULT_REGION")
	cfg.BindEnv("azure.connection-string", "AZURE_STORAGE_CONNECTION_STRING")
	cfg.BindEnv("gcs.project-id", "GOOGLE_CLOUD_PROJECT_ID")
	cfg.BindEnv("gcs.credentials-file", "GOOGLE_CLOUD_CREDENTIALS_PATH")
	cfg.BindEnv("gcs.credentials-json", "GOOGLE_CLOUD_CREDENTIALS_JSON")
	cfg.BindEnv("obs.access-key", "OBS_ACCESS_KEY_ID")
	cfg.BindEnv("obs.secret-key", "OBS_SECRET_ACCESS_KEY")
	cfg.BindEnv("obs.endpoint", "OBS_ENDPOINT_URL")

	if cfgFile != "" {
		cfg.SetConfigFile(cfgFile)
		if err := cfg.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg.AddConfigPath(".")
		cfg.AddConfigPath("./configs")
		cfg.SetConfigName("cloudbulk")
		// Missing config file is fine, env and flags may carry everything.
		_ = cfg.ReadInConfig()
	}

	if backend != "" {
		cfg.Set("backend", backend)
	}

	return buildStorageConfig(cfg)
}

func buildStorageConfig(cfg *viper.Viper) (*module.StorageConfig, error) {
	name := cfg.GetString("backend")
	category, ok := module.StorageCategoryCodeMap[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q", name)
	}

	config := &module.StorageConfig{
		Category:         category,
		ConnectionString: cfg.GetString("azure.connection-string"),
		ProjectId:        cfg.GetString("gcs.project-id"),
		CredentialsFile:  cfg.GetString("gcs.credentials-file"),
		CredentialsJson:  cfg.GetString("gcs.credentials-json"),
		ReqTimeout:       cfg.GetInt32("req-timeout"),
		MaxConnection:    cfg.GetInt32("max-connection"),
	}
	switch category {
	case module.StorageCategoryEObs:
		config.AccessKey = cfg.GetString("obs.access-key")
		config.SecretKey = cfg.GetString("obs.secret-key")
		config.Endpoint = cfg.GetString("obs.endpoint")
	default:
		config.AccessKey = cfg.GetString("s3.access-key")
		config.SecretKey = cfg.GetString("s3.secret-key")
		config.Endpoint = cfg.GetString("s3.endpoint")
		config.Region = cfg.GetString("s3.region")
	}

	if err := config.Valid(); err != nil {
		return nil, fmt.Errorf("backend %q config invalid: %w", name, err)
	}
	return config, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./cloudbulk.yaml)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "",
		"storage backend: s3, azure, gcs or obs")
	rootCmd.PersistentFlags().StringVar(&infoLog, "info-log",
		"cloudbulk_info.log", "info log file")
	rootCmd.PersistentFlags().StringVar(&errorLog, "error-log",
		"cloudbulk_error.log", "error log file")
	rootCmd.PersistentFlags().Int64Var(&logLevel, "log-level", 0,
		"log level (-1 debug ... 5 fatal)")
}
