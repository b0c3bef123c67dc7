package redis

import (
	"fmt"

	"github.com/mediocregopher/radix/v3"
	"github.com/rs/zerolog/log"
)

// Config for the redis connection
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int `mapstructure:"pool_size"`
}

// Enabled reports whether a redis host is configured
func (cfg Config) Enabled() bool {
	return cfg.Host != ""
}

// Client is a thin wrapper over a radix pool
type Client struct {
	cfg  Config
	pool *radix.Pool
}

// NewClient creates a client, the connection is opened by Connect
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// Connect opens the connection pool
func (c *Client) Connect() error {
	size := c.cfg.PoolSize
	if size <= 0 {
		size = 10
	}
	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	opts := []radix.DialOpt{radix.DialSelectDB(c.cfg.DB)}
	if c.cfg.Password != "" {
		opts = append(opts, radix.DialAuthPass(c.cfg.Password))
	}
	connFunc := func(network, addr string) (radix.Conn, error) {
		return radix.Dial(network, addr, opts...)
	}
	pool, err := radix.NewPool("tcp", addr, size, radix.PoolConnFunc(connFunc))
	if err != nil {
		return err
	}
	c.pool = pool
	log.Info().Str("section", "redis").Str("addr", addr).Msg("Connected to redis")
	return nil
}

// Exec runs a command and stores the reply in rcv (which may be nil)
func (c *Client) Exec(rcv interface{}, cmd string, args ...string) error {
	return c.pool.Do(radix.Cmd(rcv, cmd, args...))
}

// Disconnect closes the pool
func (c *Client) Disconnect() {
	if c.pool == nil {
		return
	}
	if err := c.pool.Close(); err != nil {
		log.Error().Err(err).Str("section", "redis").Msg("Unable to close redis pool")
	}
}
