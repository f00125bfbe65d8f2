package cfg

import (
	"cmp"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Import bundle
	Email         string `long:"email" env:"TUMBLR_EMAIL" description:"Tumblr account email"`
	Password      string `long:"password" env:"TUMBLR_PASSWORD" description:"Tumblr account password"`
	Group         string `long:"group" env:"TUMBLR_GROUP" description:"Tumblr group, e.g. mygroup.tumblr.com for public or 1495028 for private (optional)"`
	FeedURL       string `long:"feed" env:"FEED_URL" description:"Blogger feed URL, e.g. http://myblog.blogspot.com/feeds/posts/default"`
	ExtraTags     string `long:"extra-tags" env:"EXTRA_TAGS" description:"Comma-delimited tags added to every post (optional)"`
	Preview       bool   `long:"preview" env:"PREVIEW" description:"Do everything except send posts to Tumblr"`
	NoAutocorrect bool   `long:"no-autocorrect" env:"NO_AUTOCORRECT" description:"Do not infer the posts feed from a blog home page URL"`
	JobFile       string `long:"job" env:"JOB_FILE" description:"YAML file with import settings; flags take precedence"`

	// Destination
	Endpoint  string `long:"endpoint" env:"TUMBLR_ENDPOINT" default:"http://www.tumblr.com/api/write" description:"Tumblr write API endpoint"`
	Generator string `long:"generator" env:"GENERATOR" default:"https://github.com/lysyi3m/blog-migrate" description:"Generator tag sent with every post"`

	// Application configuration
	UserAgent    string `long:"user-agent" env:"USER_AGENT" default:"Blog Migrate/1.0" description:"User agent string for feed requests"`
	Timezone     string `long:"timezone" env:"TZ" default:"America/New_York" description:"Timezone for post timestamps (e.g., UTC, America/New_York)"`
	FetchTimeout int    `long:"timeout" env:"FETCH_TIMEOUT" default:"60" description:"Feed download timeout in seconds"`
	MaxRunTime   int    `long:"max-run-time" env:"MAX_RUN_TIME" default:"1800" description:"Ceiling for a whole import run in seconds"`
	SupportURL   string `long:"support-url" env:"SUPPORT_URL" default:"http://plpatterns.com/post/37782942/moving-from-blogger-to-tumblr#disqus_thread" description:"Help link shown after a failed import (empty to disable)"`

	// HTTP intake
	Serve        bool   `long:"serve" env:"SERVE" description:"Accept imports over HTTP instead of running one from flags"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key required by POST /import (optional)"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging and payload dumps"`
}

// jobFile mirrors the import form fields.
type jobFile struct {
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	Group       string `yaml:"group"`
	Feed        string `yaml:"feed"`
	ExtraTags   string `yaml:"extra_tags"`
	Preview     bool   `yaml:"preview"`
	Debug       bool   `yaml:"debug"`
	Autocorrect *bool  `yaml:"autocorrect"`
}

// Load parses args and the environment. It returns nil, nil when help was shown.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	job := Job{
		Email:       raw.Email,
		Password:    raw.Password,
		Group:       raw.Group,
		FeedURL:     raw.FeedURL,
		ExtraLabels: SplitLabels(raw.ExtraTags),
		Preview:     raw.Preview,
		Debug:       raw.Debug,
		Autocorrect: !raw.NoAutocorrect,
	}

	if raw.JobFile != "" {
		file, err := loadJobFile(raw.JobFile)
		if err != nil {
			return nil, err
		}
		job = mergeJob(job, file)
	}

	location, err := time.LoadLocation(raw.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", raw.Timezone, err)
	}

	return &Cfg{
		Job:          job,
		Endpoint:     raw.Endpoint,
		Generator:    raw.Generator,
		UserAgent:    raw.UserAgent,
		Timezone:     raw.Timezone,
		Location:     location,
		FetchTimeout: time.Duration(raw.FetchTimeout) * time.Second,
		MaxRunTime:   time.Duration(raw.MaxRunTime) * time.Second,
		SupportURL:   raw.SupportURL,
		Serve:        raw.Serve,
		Port:         raw.Port,
		APIAccessKey: raw.APIAccessKey,
		Debug:        raw.Debug || job.Debug,
		Version:      GetVersion(),
	}, nil
}

// SplitLabels turns comma-delimited text into trimmed, non-empty labels.
func SplitLabels(text string) []string {
	var labels []string
	for _, part := range strings.Split(text, ",") {
		if label := strings.TrimSpace(part); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

func loadJobFile(path string) (jobFile, error) {
	var file jobFile

	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("failed to read job file: %w", err)
	}

	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}

	return file, nil
}

// mergeJob fills whatever the flags left unset from the job file.
func mergeJob(job Job, file jobFile) Job {
	job.Email = cmp.Or(job.Email, file.Email)
	job.Password = cmp.Or(job.Password, file.Password)
	job.Group = cmp.Or(job.Group, file.Group)
	job.FeedURL = cmp.Or(job.FeedURL, file.Feed)
	if len(job.ExtraLabels) == 0 {
		job.ExtraLabels = SplitLabels(file.ExtraTags)
	}
	job.Preview = job.Preview || file.Preview
	job.Debug = job.Debug || file.Debug
	if file.Autocorrect != nil && !*file.Autocorrect {
		job.Autocorrect = false
	}
	return job
}
