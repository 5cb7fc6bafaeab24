package service

import (
	"context"
	"fmt"
	"imgbot/internal/core/domain"
	"imgbot/internal/core/port"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Tracker interface {
	AddConversion(chatID int64)
	CheckLimit(ctx context.Context, chatID int64) bool
	GetConversions(chatID int64) int
	GetLimit() int
}

// UsageTracker counts conversions per chat and day. A daily limit of 0 disables the limit.
type UsageTracker struct {
	chats      map[int64]int
	dailyLimit int
	mutex      *sync.Mutex
	sender     port.TextSender
}

func NewUsageTracker(ctx context.Context, sender port.TextSender) *UsageTracker {
	ut := &UsageTracker{
		chats:      make(map[int64]int),
		mutex:      &sync.Mutex{},
		sender:     sender,
		dailyLimit: viper.GetInt("telegram.daily_conversion_limit"),
	}

	go ut.ResetDailyLimit(ctx)

	return ut
}

func (t *UsageTracker) AddConversion(chatID int64) {
	t.mutex.Lock()
	t.chats[chatID]++
	t.mutex.Unlock()
}

func (t *UsageTracker) GetConversions(chatID int64) int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.chats[chatID]
}

func (t *UsageTracker) GetLimit() int {
	return t.dailyLimit
}

const overLimit = "You have reached your daily limit of %d conversions. Limit will reset in %s."

func (t *UsageTracker) CheckLimit(ctx context.Context, chatID int64) bool {
	if t.dailyLimit <= 0 || t.GetConversions(chatID) < t.dailyLimit {
		return true
	}

	_, err := t.sender.SendMessageReply(ctx,
		&domain.Message{ChatID: chatID},
		fmt.Sprintf(overLimit, t.dailyLimit, time.Until(getNextResetTime()).Truncate(time.Second)))
	if err != nil {
		log.Warn().Err(err).Msg("failed to send daily limit exceeded warning")
	}

	return false
}

func (t *UsageTracker) ResetDailyLimit(ctx context.Context) {
	reset := getNextResetTime()

	for {
		log.Debug().Time("reset", reset).Msg("running reset timer")
		select {
		case <-time.After(time.Until(reset)):
			log.Debug().Msg("resetting daily limit")
			t.mutex.Lock()
			t.chats = make(map[int64]int)
			t.mutex.Unlock()
			time.Sleep(time.Second)
			reset = getNextResetTime()
		case <-ctx.Done():
			log.Debug().Msg("stopping daily limit reset")
			return
		}
	}
}

func getNextResetTime() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
