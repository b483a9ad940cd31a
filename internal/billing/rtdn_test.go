package billing

import (
	"encoding/base64"
	"testing"

	"pocaswap-api/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pushBody(payload string) []byte {
	data := base64.StdEncoding.EncodeToString([]byte(payload))
	return []byte(`{"message":{"data":"` + data + `","messageId":"136969346945"},"subscription":"projects/p/subscriptions/play"}`)
}

func TestParsePushMessageSubscription(t *testing.T) {
	body := pushBody(`{
		"version":"1.0",
		"packageName":"com.pocaswap.app",
		"eventTimeMillis":"1503349566168",
		"subscriptionNotification":{
			"version":"1.0",
			"notificationType":2,
			"purchaseToken":"tok-renewed",
			"subscriptionId":"premium_monthly"
		}
	}`)

	n, err := ParsePushMessage(body)
	require.NoError(t, err)
	assert.Equal(t, "136969346945", n.MessageID)
	assert.Equal(t, "com.pocaswap.app", n.PackageName)
	assert.Equal(t, "tok-renewed", n.PurchaseToken)
	assert.Equal(t, "premium_monthly", n.SubscriptionID)
	assert.Equal(t, NotificationRenewed, n.NotificationType)
	assert.False(t, n.Test)
}

func TestParsePushMessageTestNotification(t *testing.T) {
	n, err := ParsePushMessage(pushBody(`{"version":"1.0","packageName":"com.pocaswap.app","testNotification":{"version":"1.0"}}`))
	require.NoError(t, err)
	assert.True(t, n.Test)
	assert.Empty(t, n.PurchaseToken)
}

func TestParsePushMessageInvalid(t *testing.T) {
	tests := map[string][]byte{
		"not json":         []byte(`nope`),
		"missing data":     []byte(`{"message":{}}`),
		"bad base64":       []byte(`{"message":{"data":"***"}}`),
		"payload not json": pushBody(`not-json`),
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePushMessage(body)
			assert.ErrorIs(t, err, errs.ErrInvalidInput)
		})
	}
}
