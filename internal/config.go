package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	LogLevel   string `env:"LOG_LEVEL,default=INFO"`
	Host       string `env:"HOST,default=0.0.0.0"`
	Port       int    `env:"PORT,default=5000"`
	GrpcPort   int    `env:"GRPC_PORT,default=50051"`
	DebugPort  int    `env:"DEBUG_PORT,default=8081"`
	JWTSecret  string `env:"JWT_SECRET,required=true"`
	JWTIssuer  string `env:"JWT_ISSUER,default=skillsync"`
	CorsOrigin string `env:"ALLOWED_ORIGIN,default=*"`

	AuthTokenDuration  time.Duration `env:"AUTH_TOKEN_DURATION,default=720h"`
	SinkTimeout        time.Duration `env:"SINK_TIMEOUT,default=2s"`
	MetricInterval     time.Duration `env:"METRIC_INTERVAL,default=10s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	ReadHeaderTimeout  time.Duration `env:"READ_HEADER_TIMEOUT,default=5s"`
	WorkerRestartDelay time.Duration `env:"WORKER_RESTART_DELAY,default=200ms"`
	ConnectionBuffer   int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	IndexQueueSize     int           `env:"INDEX_QUEUE_SIZE,default=1024"`
	MaxFrameBytes      int           `env:"MAX_FRAME_BYTES,default=65536"`
	TrustQueryIdentity bool          `env:"GATEWAY_TRUST_QUERY_IDENTITY,default=false"`

	BadgerFilepath   string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath    string `env:"BLUGE_FILEPATH,required=true"`
	MaxContentLength int    `env:"MAX_CONTENT_LENGTH,default=2000"`
	CharReplacement  string `env:"CHARACTER_REPLACEMENT,default=*"`
	CensoredWords    string `env:"CENSORED_WORDS"`
	CensoredWordsDir string `env:"CENSORED_WORDS_DIR"`
}

// AllowedOrigins splits ALLOWED_ORIGIN on commas. "*" allows any origin.
func (c Config) AllowedOrigins() []string {
	return splitList(c.CorsOrigin)
}

// ExtraCensoredWords splits CENSORED_WORDS on commas.
func (c Config) ExtraCensoredWords() []string {
	return splitList(c.CensoredWords)
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
