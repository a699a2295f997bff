package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/abihavaraj/animo-sub007/models"
	"github.com/abihavaraj/animo-sub007/repo"
	"github.com/abihavaraj/animo-sub007/version"
	"github.com/jinzhu/gorm"
)

const (
	// deliveryBatchSize is the maximum number of messages the push
	// gateway accepts in a single request.
	deliveryBatchSize = 100

	// interBatchDelay is the pause between consecutive batch requests
	// to stay under the gateway's rate limit.
	interBatchDelay = time.Second

	// errDeviceNotRegistered is the gateway error indicating the token
	// will never work again.
	errDeviceNotRegistered = "DeviceNotRegistered"
)

// DeliveryResult aggregates the outcome of a push fan-out. Delivery is
// best effort; failures are counted here rather than escalated, and the
// caller decides what, if anything, to do about them.
type DeliveryResult struct {
	Delivered         int `json:"delivered"`
	Skipped           int `json:"skipped"`
	PermanentFailures int `json:"permanentFailures"`
	TransientFailures int `json:"transientFailures"`
}

// Ok reports whether at least one delivery succeeded.
func (r DeliveryResult) Ok() bool {
	return r.Delivered > 0
}

func (r *DeliveryResult) add(other DeliveryResult) {
	r.Delivered += other.Delivered
	r.Skipped += other.Skipped
	r.PermanentFailures += other.PermanentFailures
	r.TransientFailures += other.TransientFailures
}

// pushMessage is the gateway's wire format for a single notification.
type pushMessage struct {
	To       string            `json:"to"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Sound    string            `json:"sound"`
	Priority string            `json:"priority"`
	Badge    int               `json:"badge,omitempty"`
	Data     map[string]string `json:"data,omitempty"`
}

type pushTicket struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details,omitempty"`
}

type pushResponse struct {
	Data []pushTicket `json:"data"`
}

// PushClient delivers notifications to the external push gateway. It
// fans out to every active device of a recipient and batches bulk sends.
// The gateway is treated as at-most-once: there is no queued retry and
// no backoff beyond marking dead tokens inactive.
type PushClient struct {
	url    string
	client *http.Client
	db     repo.Database
	sleep  func(time.Duration)
}

// NewPushClient returns a client pointed at the given gateway URL using
// the provided database for token lookups and deactivation.
func NewPushClient(url string, db repo.Database) *PushClient {
	client := &http.Client{Timeout: time.Minute}
	return &PushClient{
		url:    url,
		client: client,
		db:     db,
		sleep:  time.Sleep,
	}
}

// DeliverToUser sends the title/body pair to every active device of the
// user. Devices are sent to concurrently and one device's failure never
// affects the others. A user with no usable token is a no-op, not an
// error.
func (p *PushClient) DeliverToUser(userID, title, body string) DeliveryResult {
	var result DeliveryResult

	tokens, err := p.activeTokens(userID)
	if err != nil {
		log.Errorf("Error loading push tokens for user %s: %s", userID, err)
		result.TransientFailures++
		return result
	}

	var valid []string
	for _, token := range tokens {
		if !models.ValidPushTokenFormat(token) {
			// Clear junk tokens so we stop considering them.
			result.Skipped++
			p.deactivateToken(token)
			continue
		}
		valid = append(valid, token)
	}
	if len(valid) == 0 {
		return result
	}

	var (
		wg  sync.WaitGroup
		mtx sync.Mutex
	)
	for _, token := range valid {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			r := p.sendAndClassify([]string{token}, title, body)
			mtx.Lock()
			result.add(r)
			mtx.Unlock()
		}(token)
	}
	wg.Wait()

	return result
}

// DeliverToMany sends the title/body pair to a pre-computed token list,
// partitioned into gateway-sized batches sent sequentially with a fixed
// pause between batches. Preference filtering is assumed to have already
// happened upstream. A whole-batch HTTP failure counts as a transient
// failure for every token in that batch; there is no retry within this
// call.
func (p *PushClient) DeliverToMany(tokens []string, title, body string) DeliveryResult {
	var result DeliveryResult

	for i := 0; i < len(tokens); i += deliveryBatchSize {
		end := i + deliveryBatchSize
		if end > len(tokens) {
			end = len(tokens)
		}

		result.add(p.sendAndClassify(tokens[i:end], title, body))

		if end < len(tokens) {
			p.sleep(interBatchDelay)
		}
	}

	return result
}

// sendAndClassify sends one batch and classifies each ticket returned by
// the gateway. Permanent failures deactivate the token; transient
// failures are logged and the token stays eligible for the next event.
func (p *PushClient) sendAndClassify(tokens []string, title, body string) DeliveryResult {
	var result DeliveryResult

	tickets, err := p.sendBatch(tokens, title, body)
	if err != nil {
		log.Errorf("Push gateway request failed: %s", err)
		result.TransientFailures += len(tokens)
		return result
	}

	for i, ticket := range tickets {
		if i >= len(tokens) {
			break
		}
		switch {
		case ticket.Status == "ok":
			result.Delivered++
		case ticket.Details.Error == errDeviceNotRegistered:
			result.PermanentFailures++
			p.deactivateToken(tokens[i])
		default:
			result.TransientFailures++
			log.Warningf("Transient push failure for token %s: %s", tokens[i], ticket.Message)
		}
	}

	// The gateway returned fewer tickets than messages. Count the
	// remainder as transient.
	if len(tickets) < len(tokens) {
		result.TransientFailures += len(tokens) - len(tickets)
	}

	return result
}

func (p *PushClient) sendBatch(tokens []string, title, body string) ([]pushTicket, error) {
	messages := make([]pushMessage, len(tokens))
	for i, token := range tokens {
		messages[i] = pushMessage{
			To:       token,
			Title:    title,
			Body:     body,
			Sound:    "default",
			Priority: "high",
		}
	}

	out, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, p.url, bytes.NewReader(out))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	var ticketResp pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&ticketResp); err != nil {
		return nil, err
	}
	return ticketResp.Data, nil
}

// activeTokens returns the user's active device tokens, falling back to
// the legacy single-token field when the registry has no rows for them.
func (p *PushClient) activeTokens(userID string) ([]string, error) {
	var tokens []string
	err := p.db.View(func(tx *gorm.DB) error {
		var rows []models.PushToken
		if err := tx.Where("user_id = ? AND is_active = ?", userID, true).Find(&rows).Error; err != nil && !gorm.IsRecordNotFoundError(err) {
			return err
		}
		for _, row := range rows {
			tokens = append(tokens, row.Token)
		}
		if len(tokens) > 0 {
			return nil
		}

		var user models.StudioUser
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if gorm.IsRecordNotFoundError(err) {
				return nil
			}
			return err
		}
		if user.LegacyPushToken != "" {
			tokens = append(tokens, user.LegacyPushToken)
		}
		return nil
	})
	return tokens, err
}

// deactivateToken flips the token inactive. Tokens are never deleted so
// a device re-registering the same token cannot race a delete. The
// update is idempotent; deactivating twice leaves a single inactive row.
func (p *PushClient) deactivateToken(token string) {
	err := p.db.Update(func(tx *gorm.DB) error {
		return tx.Model(&models.PushToken{}).Where("token = ?", token).UpdateColumn("is_active", false).Error
	})
	if err != nil {
		log.Errorf("Error deactivating push token %s: %s", token, err)
	}
}
