package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/Dikshant005/Titan-Strength/internal/logger"
	"github.com/Dikshant005/Titan-Strength/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	emailQueue       = "emails"
	emailFailedQueue = "emails:failed"
	maxEmailTries    = 3
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Mailer pushes outbound emails through a Redis list so that SMTP latency
// and failures never sit on a request path. A background worker drains the
// queue and retries before parking a job on the failed list.
type Mailer struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func NewMailer(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Mailer {
	return &Mailer{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (m *Mailer) Queue(ctx context.Context, to, name, subject, body string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := m.redis.LPush(ctx, emailQueue, data).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", to, err)
		return err
	}

	logger.Infof("Email queued: %s to %s", subject, to)
	return nil
}

func (m *Mailer) StartWorker(ctx context.Context) {
	logger.Info("Email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email worker stopped")
			return
		default:
			m.processNext(ctx)
		}
	}
}

func (m *Mailer) processNext(ctx context.Context) {
	result, err := m.redis.BRPop(ctx, 2*time.Second, emailQueue).Result()
	if err != nil {
		return
	}

	metrics.EmailQueueLength.Set(float64(m.QueueLength(ctx)))

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return
	}

	job.Tries++
	logger.Infof("Sending email to %s (attempt %d)", job.To, job.Tries)
	if err := m.sendNow(job); err != nil {
		logger.Errorf("Failed to send email to %s: %v", job.To, err)

		if job.Tries < maxEmailTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			m.redis.LPush(context.Background(), emailQueue, data)
			logger.Infof("Retrying email to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Email to %s failed after %d attempts", job.To, maxEmailTries)
			m.saveFailed(job, err)
		}
		return
	}

	logger.Infof("Email sent successfully to %s", job.To)
}

func (m *Mailer) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", m.fromName, m.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if m.smtpUser != "" && m.smtpPass != "" {
		auth = smtp.PlainAuth("", m.smtpUser, m.smtpPass, m.smtpHost)
	}

	addr := m.smtpHost + ":" + m.smtpPort
	return smtp.SendMail(addr, auth, m.from, []string{job.To}, []byte(message))
}

func (m *Mailer) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	m.redis.LPush(context.Background(), emailFailedQueue, data)
	logger.Errorf("Email moved to failed queue: %s", job.To)
}

func (m *Mailer) QueueLength(ctx context.Context) int64 {
	length, _ := m.redis.LLen(ctx, emailQueue).Result()
	return length
}

func (m *Mailer) Close() error {
	return m.redis.Close()
}
