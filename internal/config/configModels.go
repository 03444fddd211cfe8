package config

import "time"

type Config struct {
	Env           string           `yaml:"env" env:"ENV" env-default:"local"`
	HttpServer    HttpServerConfig `yaml:"httpServer" env-required:"true"`
	DBConfig      DBConfig         `yaml:"db" env-required:"true"`
	AI            AIConfig         `yaml:"ai" env-required:"true"`
	Sources       SourcesConfig    `yaml:"sources"`
	Notify        NotifyConfig     `yaml:"notify"`
	ImportTimeout time.Duration    `yaml:"importTimeout" env:"IMPORT_TIMEOUT" env-default:"30s"`
}

type HttpServerConfig struct {
	Address       string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost"`
	Port          string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	Timeout       time.Duration `yaml:"timeout" env-default:"5s"`
	SyncSecret    string        `yaml:"syncSecret" env:"SYNC_SECRET" env-required:"true"`
	AdminPassword string        `yaml:"adminPassword" env:"ADMIN_PASSWORD" env-required:"true"`
	JWTSecret     string        `yaml:"jwtSecret" env:"JWT_SECRET" env-required:"true"`
	JWTTTL        time.Duration `yaml:"jwtTTL" env:"JWT_TTL" env-default:"12h"`
}

type DBConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"postgres"`
	User     string `yaml:"user" env:"DB_USER" env-default:"user"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-default:"password"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

type AIConfig struct {
	Timeout      time.Duration `yaml:"timeout" env:"AI_TIMEOUT" env-default:"60s"`
	ModelName    string        `yaml:"modelName" env:"AI_MODEL_NAME" env-required:"true"`
	AIApiToken   string        `yaml:"aiapitoken" env:"AI_API_TOKEN" env-required:"true"`
	PromptBudget int           `yaml:"promptBudget" env-default:"15000"` // max page chars fed to the model
}

// SourceConfig describes one polled platform: its credential (when the
// platform needs one), the list of query targets to poll, and the moderation
// status newly ingested records receive. An empty Targets list is valid and
// means the adapter yields nothing.
type SourceConfig struct {
	APIToken      string   `yaml:"apiToken"`
	Targets       []string `yaml:"targets"`
	DefaultStatus string   `yaml:"defaultStatus" env-default:"approved"`
	Timeout       int      `yaml:"timeout" env-default:"30"` // in seconds
}

type SourcesConfig struct {
	Eventbrite SourceConfig `yaml:"eventbrite"`
	Luma       SourceConfig `yaml:"luma"`
}

type NotifyConfig struct {
	TgbotApiToken string `yaml:"tgbot_apitoken" env:"TGBOT_APITOKEN"`
	AdminChatID   int64  `yaml:"adminChatId" env:"TGBOT_ADMIN_CHAT_ID"`
}
