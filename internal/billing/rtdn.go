package billing

import (
	"encoding/base64"
	"fmt"

	"pocaswap-api/internal/errs"

	"github.com/tidwall/gjson"
)

// Subscription notification types sent by Google Play.
const (
	NotificationRecovered            = 1
	NotificationRenewed              = 2
	NotificationCanceled             = 3
	NotificationPurchased            = 4
	NotificationOnHold               = 5
	NotificationInGracePeriod        = 6
	NotificationRestarted            = 7
	NotificationPriceChangeConfirmed = 8
	NotificationDeferred             = 9
	NotificationPaused               = 10
	NotificationPauseScheduleChanged = 11
	NotificationRevoked              = 12
	NotificationExpired              = 13
)

// Notification is the part of a Real-time Developer Notification the API acts on.
type Notification struct {
	MessageID        string
	PackageName      string
	PurchaseToken    string
	SubscriptionID   string
	NotificationType int
	Test             bool
}

// ParsePushMessage decodes a Pub/Sub push body and the RTDN payload inside it.
// Notifications that carry no subscription (test, one-time products) come back
// with an empty PurchaseToken.
func ParsePushMessage(body []byte) (*Notification, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: push body is not JSON", errs.ErrInvalidInput)
	}
	envelope := gjson.ParseBytes(body)

	data := envelope.Get("message.data").String()
	if data == "" {
		return nil, fmt.Errorf("%w: push message has no data", errs.ErrInvalidInput)
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: push data is not base64: %v", errs.ErrInvalidInput, err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: notification is not JSON", errs.ErrInvalidInput)
	}

	payload := gjson.ParseBytes(raw)
	n := &Notification{
		MessageID:   envelope.Get("message.messageId").String(),
		PackageName: payload.Get("packageName").String(),
		Test:        payload.Get("testNotification").Exists(),
	}
	if sub := payload.Get("subscriptionNotification"); sub.Exists() {
		n.PurchaseToken = sub.Get("purchaseToken").String()
		n.SubscriptionID = sub.Get("subscriptionId").String()
		n.NotificationType = int(sub.Get("notificationType").Int())
	}
	return n, nil
}
