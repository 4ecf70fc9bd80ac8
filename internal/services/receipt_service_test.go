package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"receipt-api/internal/asn1"
	"receipt-api/internal/database"
	"receipt-api/internal/models"
	"receipt-api/internal/receipt"
	"receipt-api/internal/receipt/fixture"
)

type recordingNotifier struct {
	payloads chan WebhookPayload
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{payloads: make(chan WebhookPayload, 4)}
}

func (n *recordingNotifier) NotifyAppBackend(_ context.Context, _, _ string, payload WebhookPayload) {
	n.payloads <- payload
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, error) { return nil, errors.New("down") }
func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("down")
}

var testCreationDate = time.Date(2020, 7, 22, 17, 39, 59, 0, time.UTC)

func encodedReceipt(t *testing.T, r fixture.Receipt) string {
	t.Helper()
	data, err := r.Encode()
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(data)
}

func newTestService(t *testing.T, cache Cache, notifier Notifier) *ReceiptService {
	t.Helper()
	_, err := database.OpenInMemory()
	require.NoError(t, err)
	return NewReceiptService(cache, notifier)
}

func TestDecodeReceiptData(t *testing.T) {
	s := &ReceiptService{maxBytes: 8}

	data, err := s.DecodeReceiptData(" AQID\nBA== ")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, data)

	data, err = s.DecodeReceiptData("AQIDBA")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, data)

	_, err = s.DecodeReceiptData("   ")
	require.ErrorIs(t, err, ErrEmptyReceipt)

	_, err = s.DecodeReceiptData("not base64!")
	require.ErrorIs(t, err, ErrInvalidBase64)

	_, err = s.DecodeReceiptData(base64.StdEncoding.EncodeToString(make([]byte, 64)))
	require.ErrorIs(t, err, ErrReceiptTooLarge)
}

func TestParseReceiptStoresAndNotifies(t *testing.T) {
	notifier := newRecordingNotifier()
	s := newTestService(t, NewMemoryCache(), notifier)
	app := &models.App{AppID: "default", BundleID: "com.example.app", WebhookCallbackURL: "http://hooks.example"}

	encoded := encodedReceipt(t, fixture.Receipt{
		BundleID:     "com.example.app",
		CreationDate: testCreationDate,
		Purchases: []fixture.Purchase{{
			Quantity:      1,
			ProductID:     "com.example.pro",
			TransactionID: "1",
			PurchaseDate:  testCreationDate,
		}},
	})

	result, err := s.ParseReceipt(context.Background(), app, encoded)
	require.NoError(t, err)
	require.False(t, result.Cached)
	require.Equal(t, "com.example.app", result.Receipt.BundleID)
	require.NotEmpty(t, result.RecordID)

	stored, err := s.GetRecord(context.Background(), app, result.RecordID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.PurchaseCount)
	require.Len(t, stored.Purchases, 1)
	require.Equal(t, "unknown", stored.Purchases[0].ProductType)

	select {
	case payload := <-notifier.payloads:
		require.Equal(t, "receipt.parsed", payload.Event)
		require.Equal(t, result.RecordID, payload.RecordID)
		require.Equal(t, []string{"com.example.pro"}, payload.ProductIDs)
	case <-time.After(time.Second):
		t.Fatal("webhook was not sent")
	}

	again, err := s.ParseReceipt(context.Background(), app, encoded)
	require.NoError(t, err)
	require.True(t, again.Cached)
	require.NotEqual(t, result.RecordID, again.RecordID)
	require.True(t, result.Receipt.Equal(again.Receipt))

	select {
	case <-notifier.payloads:
		t.Fatal("resubmitted receipt was announced twice")
	case <-time.After(50 * time.Millisecond):
	}

	records, err := s.ListRecords(context.Background(), app, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestParseReceiptErrors(t *testing.T) {
	s := newTestService(t, failingCache{}, nil)
	app := &models.App{AppID: "default", BundleID: "com.example.app"}

	_, err := s.ParseReceipt(context.Background(), app, encodedReceipt(t, fixture.Receipt{
		BundleID:     "com.other.app",
		CreationDate: testCreationDate,
	}))
	require.ErrorIs(t, err, ErrBundleMismatch)

	_, err = s.ParseReceipt(context.Background(), app, base64.StdEncoding.EncodeToString([]byte{0x30, 0x80}))
	require.ErrorIs(t, err, ErrInvalidReceipt)
	require.ErrorIs(t, err, asn1.ErrIndefiniteLength)

	anyBundle := &models.App{AppID: "default"}
	result, err := s.ParseReceipt(context.Background(), anyBundle, encodedReceipt(t, fixture.Receipt{
		BundleID:     "com.other.app",
		CreationDate: testCreationDate,
	}))
	require.NoError(t, err)
	require.False(t, result.Cached)
}

func TestHasTransactions(t *testing.T) {
	s := newTestService(t, nil, nil)

	has, err := s.HasTransactions(encodedReceipt(t, fixture.Receipt{BundleID: "com.example.app", CreationDate: testCreationDate}))
	require.NoError(t, err)
	require.False(t, has)

	has, err = s.HasTransactions(base64.StdEncoding.EncodeToString([]byte("garbage")))
	require.NoError(t, err)
	require.True(t, has)

	_, err = s.HasTransactions("")
	require.ErrorIs(t, err, ErrEmptyReceipt)
}

func TestEntitlements(t *testing.T) {
	s := newTestService(t, nil, nil)
	app := &models.App{AppID: "default"}
	expired := testCreationDate.Add(24 * time.Hour)
	subscription := receipt.ProductTypeAutoRenewableSubscription
	trial := true

	encoded := encodedReceipt(t, fixture.Receipt{
		BundleID:     "com.example.app",
		CreationDate: testCreationDate,
		Purchases: []fixture.Purchase{
			{
				ProductID:       "com.example.monthly",
				TransactionID:   "1",
				ProductType:     &subscription,
				PurchaseDate:    testCreationDate,
				ExpiresDate:     &expired,
				IsInTrialPeriod: &trial,
			},
			{
				ProductID:     "com.example.lifetime",
				TransactionID: "2",
				PurchaseDate:  testCreationDate,
			},
		},
	})

	got, err := s.Entitlements(context.Background(), app, encoded, "com.example.lifetime")
	require.NoError(t, err)
	require.True(t, got.ContainsActivePurchase)
	require.Equal(t, []string{"com.example.monthly"}, got.IntroOfferOrTrialProductIDs)

	got, err = s.Entitlements(context.Background(), app, encoded, "com.example.unrelated")
	require.NoError(t, err)
	require.False(t, got.ContainsActivePurchase)
}

func TestGetRecordNotFound(t *testing.T) {
	s := newTestService(t, nil, nil)
	_, err := s.GetRecord(context.Background(), &models.App{AppID: "default"}, "missing")
	require.ErrorIs(t, err, database.ErrReceiptNotFound)
}
