package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Provider names accepted by mail.provider and archive.provider.
const (
	ProviderNone  = "none"
	ProviderSMTP  = "smtp"
	ProviderGraph = "graph"
	ProviderLocal = "local"
)

// EnvPrefix prefixes every environment override (FIELDREPORT_MAIL_PASSWORD, ...).
const EnvPrefix = "FIELDREPORT"

// Config represents the fieldreport configuration.
type Config struct {
	DataDir   string          `mapstructure:"data_dir" yaml:"data_dir"`
	AssetsDir string          `mapstructure:"assets_dir" yaml:"assets_dir"`
	OutputDir string          `mapstructure:"output_dir" yaml:"output_dir"` // empty = OS temp dir
	Timezone  string          `mapstructure:"timezone" yaml:"timezone"`
	Checklist ChecklistConfig `mapstructure:"checklist" yaml:"checklist"`
	Mail      MailConfig      `mapstructure:"mail" yaml:"mail"`
	Graph     GraphConfig     `mapstructure:"graph" yaml:"graph"`
	Archive   ArchiveConfig   `mapstructure:"archive" yaml:"archive"`
	HTTP      HTTPConfig      `mapstructure:"http" yaml:"http"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// ChecklistConfig lists the maintenance tasks offered per attended user.
type ChecklistConfig struct {
	Tasks []string `mapstructure:"tasks" yaml:"tasks"`
}

// MailConfig selects and configures the email transport.
type MailConfig struct {
	Provider string `mapstructure:"provider" yaml:"provider"` // smtp, graph or none
	SMTPHost string `mapstructure:"smtp_host" yaml:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port" yaml:"smtp_port"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"-"`
	From     string `mapstructure:"from" yaml:"from"`
}

// GraphConfig holds Microsoft Graph application credentials.
type GraphConfig struct {
	TenantID     string `mapstructure:"tenant_id" yaml:"tenant_id"`
	ClientID     string `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string `mapstructure:"client_secret" yaml:"-"`
	Sender       string `mapstructure:"sender" yaml:"sender"`     // mailbox used by sendMail
	DriveID      string `mapstructure:"drive_id" yaml:"drive_id"` // document library for archives
	BaseURL      string `mapstructure:"base_url" yaml:"base_url"`
	AuthURL      string `mapstructure:"auth_url" yaml:"auth_url"`
}

// ArchiveConfig selects where generated PDFs are archived.
type ArchiveConfig struct {
	Provider   string `mapstructure:"provider" yaml:"provider"` // graph, local or none
	RootFolder string `mapstructure:"root_folder" yaml:"root_folder"`
	LocalDir   string `mapstructure:"local_dir" yaml:"local_dir"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr       string `mapstructure:"addr" yaml:"addr"`
	UploadsDir string `mapstructure:"uploads_dir" yaml:"uploads_dir"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // console or json
}

// DBPath returns the location of the visit database.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "visitas.db")
}

// ReportDir returns the directory generated PDFs and signatures are written to.
func (c *Config) ReportDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return os.TempDir()
}

// DefaultDataDir returns ~/.fieldreport.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".fieldreport"), nil
}

// Load reads configuration from path (or fieldreport.yaml in . and the data dir),
// a .env file in the working directory, and FIELDREPORT_* environment variables.
// Priority: environment > file > defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	dataDir, err := DefaultDataDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, dataDir)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("fieldreport")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(dataDir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, dataDir string) {
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("assets_dir", ".")
	v.SetDefault("output_dir", "")
	v.SetDefault("timezone", "America/Santiago")
	v.SetDefault("checklist.tasks", []string{
		"Borrar Temporales", "Actualizaciones Windows", "Revisión Antivirus",
		"Limpieza Física", "Optimización Disco", "Revisión Cables",
	})

	v.SetDefault("mail.provider", ProviderNone)
	v.SetDefault("mail.smtp_host", "smtp.gmail.com")
	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")

	v.SetDefault("graph.tenant_id", "")
	v.SetDefault("graph.client_id", "")
	v.SetDefault("graph.client_secret", "")
	v.SetDefault("graph.sender", "")
	v.SetDefault("graph.drive_id", "")
	v.SetDefault("graph.base_url", "https://graph.microsoft.com/v1.0")
	v.SetDefault("graph.auth_url", "https://login.microsoftonline.com")

	v.SetDefault("archive.provider", ProviderNone)
	v.SetDefault("archive.root_folder", "Informes")
	v.SetDefault("archive.local_dir", filepath.Join(dataDir, "archive"))

	v.SetDefault("http.addr", ":8000")
	v.SetDefault("http.uploads_dir", filepath.Join(dataDir, "uploads"))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate checks provider selections and the credentials they need.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir must not be empty")
	}
	if len(c.Checklist.Tasks) == 0 {
		return fmt.Errorf("config: checklist.tasks must not be empty")
	}

	switch c.Mail.Provider {
	case ProviderNone:
	case ProviderSMTP:
		if c.Mail.SMTPHost == "" || c.Mail.From == "" {
			return fmt.Errorf("config: mail.smtp_host and mail.from are required for smtp")
		}
		if c.Mail.SMTPPort <= 0 || c.Mail.SMTPPort > 65535 {
			return fmt.Errorf("config: mail.smtp_port must be between 1 and 65535")
		}
	case ProviderGraph:
		if err := c.Graph.validate(); err != nil {
			return err
		}
		if c.Graph.Sender == "" {
			return fmt.Errorf("config: graph.sender is required for graph mail")
		}
	default:
		return fmt.Errorf("config: unknown mail.provider %q", c.Mail.Provider)
	}

	switch c.Archive.Provider {
	case ProviderNone:
	case ProviderLocal:
		if c.Archive.LocalDir == "" {
			return fmt.Errorf("config: archive.local_dir is required for local archive")
		}
	case ProviderGraph:
		if err := c.Graph.validate(); err != nil {
			return err
		}
		if c.Graph.DriveID == "" {
			return fmt.Errorf("config: graph.drive_id is required for graph archive")
		}
	default:
		return fmt.Errorf("config: unknown archive.provider %q", c.Archive.Provider)
	}

	return nil
}

func (g GraphConfig) validate() error {
	if g.TenantID == "" || g.ClientID == "" || g.ClientSecret == "" {
		return fmt.Errorf("config: graph.tenant_id, graph.client_id and graph.client_secret are required")
	}
	return nil
}

// SaveConfig writes a starter fieldreport.yaml into dir. Secrets are never written;
// they belong in .env or FIELDREPORT_* variables.
func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, "fieldreport.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
