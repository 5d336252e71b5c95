package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tiendahub/backoffice/internal/domain/catalog"
	"github.com/tiendahub/backoffice/internal/jobs"
)

// JobQueueKey is the list the API pushes jobs onto and the worker pops from.
const JobQueueKey = "backoffice:jobs"

// ErrQueueEmpty is returned by Dequeue when the blocking pop times out.
var ErrQueueEmpty = errors.New("queue empty")

type Client struct {
	redisdb *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Client{redisdb: redisdb}
}

// this ping function checks redis connectivity

func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

// this closes the client

func (c *Client) Close() error {
	return c.redisdb.Close()
}

// this exposes the redis client for direct access

func (c *Client) Raw() *redis.Client {
	return c.redisdb
}

// Enqueue serializes the job envelope and pushes it onto the queue list.
func (c *Client) Enqueue(ctx context.Context, j jobs.Job) error {
	b, err := json.Marshal(j)

	if err != nil {
		return err
	}

	return c.redisdb.LPush(ctx, JobQueueKey, b).Err()
}

// Dequeue blocks up to timeout waiting for a job. go-redis extends the read
// deadline for blocking commands, so timeout may exceed ReadTimeout.
func (c *Client) Dequeue(ctx context.Context, timeout time.Duration) (jobs.Job, error) {
	res, err := c.redisdb.BRPop(ctx, timeout, JobQueueKey).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return jobs.Job{}, ErrQueueEmpty
		}

		return jobs.Job{}, err
	}

	// BRPOP returns [key, value]
	if len(res) != 2 {
		return jobs.Job{}, ErrQueueEmpty
	}

	var j jobs.Job

	if err := json.Unmarshal([]byte(res[1]), &j); err != nil {
		return jobs.Job{}, err
	}

	return j, nil
}

// EnqueueLowStock builds a low-stock alert job from an item snapshot and
// pushes it. Satisfies the sales handler's enqueuer dependency.
func (c *Client) EnqueueLowStock(ctx context.Context, item catalog.Item) error {
	payload := jobs.LowStockAlertPayload{
		ItemID:   item.ID,
		SKU:      item.SKU,
		Name:     item.Name,
		Stock:    item.Stock,
		MinStock: item.MinStock,
	}

	b, err := jobs.EncodePayload(jobs.JobLowStockAlert, payload)

	if err != nil {
		return err
	}

	j, err := jobs.NewJob(jobs.JobLowStockAlert, b)

	if err != nil {
		return err
	}

	return c.Enqueue(ctx, j)
}
