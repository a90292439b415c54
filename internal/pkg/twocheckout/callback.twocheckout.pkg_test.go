package twocheckout

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Log(message string) {
	l.messages = append(l.messages, message)
}

func callbackSettings(demo string) Settings {
	s := DefaultSettings()
	s[KeySecretWord] = "tangoS3cr3t"
	s[KeyAccountID] = "1303908"
	if demo == "" {
		delete(s, KeyDemo)
	} else {
		s[KeyDemo] = demo
	}
	return s
}

func callbackParams(orderNumber, total, key string) url.Values {
	return url.Values{
		ParamAccountID:   {"1303908"},
		ParamOrderNumber: {orderNumber},
		ParamTotal:       {total},
		ParamKey:         {key},
	}
}

func TestChecksum(t *testing.T) {
	t.Run("uses the transaction when demo is off", func(t *testing.T) {
		require.Equal(t, "E1C3B868584787A97F41EA1D72610D95",
			Checksum(callbackSettings("N"), "1303908", "T1000", "10.00"))
	})

	t.Run("missing demo flag behaves like demo off", func(t *testing.T) {
		require.Equal(t, "E1C3B868584787A97F41EA1D72610D95",
			Checksum(callbackSettings(""), "1303908", "T1000", "10.00"))
	})

	t.Run("demo mode hashes the transaction as 1", func(t *testing.T) {
		s := callbackSettings("Y")
		require.Equal(t, "13D562AA3D04A02BEBCE09DD3AE36239", Checksum(s, "1303908", "T1000", "10.00"))
		require.Equal(t, Checksum(s, "1303908", "T1000", "10.00"), Checksum(s, "1303908", "T2000", "10.00"))
	})

	t.Run("any value other than Y keeps the transaction", func(t *testing.T) {
		s := callbackSettings("y")
		require.NotEqual(t, Checksum(s, "1303908", "T1000", "10.00"), Checksum(s, "1303908", "T2000", "10.00"))
	})
}

func TestVerifyCallback(t *testing.T) {
	t.Run("matching key authorizes the payment", func(t *testing.T) {
		log := &recordingLogger{}

		res, err := VerifyCallback(callbackParams("T1000", "10.00", "E1C3B868584787A97F41EA1D72610D95"), callbackSettings("N"), log)

		require.NoError(t, err)
		require.True(t, res.Authorized())
		require.Equal(t, PaymentStateAuthorized, res.State)
		require.Equal(t, "T1000", res.TransactionID)
		require.True(t, decimal.RequireFromString("10").Equal(res.Amount))
		require.Empty(t, res.ErrorMessage)
		require.Empty(t, log.messages)
	})

	t.Run("wrong key fails and is logged", func(t *testing.T) {
		log := &recordingLogger{}

		res, err := VerifyCallback(callbackParams("T1000", "10.00", "D288F99BD72D24ADC7496BADFA46181F"), callbackSettings("N"), log)

		require.NoError(t, err)
		require.False(t, res.Authorized())
		require.Equal(t,
			"2CheckOut - MD5Sum security check failed - key: D288F99BD72D24ADC7496BADFA46181F - calculatedMD5: E1C3B868584787A97F41EA1D72610D95",
			res.ErrorMessage)
		require.Equal(t, []string{res.ErrorMessage}, log.messages)
	})

	t.Run("lowercase key is rejected", func(t *testing.T) {
		res, err := VerifyCallback(callbackParams("T1000", "10.00", "e1c3b868584787a97f41ea1d72610d95"), callbackSettings("N"), nil)

		require.NoError(t, err)
		require.False(t, res.Authorized())
	})

	t.Run("demo mode accepts any transaction number", func(t *testing.T) {
		for _, tx := range []string{"T1000", "T2000", "9093727465"} {
			res, err := VerifyCallback(callbackParams(tx, "10.00", "13D562AA3D04A02BEBCE09DD3AE36239"), callbackSettings("Y"), nil)

			require.NoError(t, err)
			require.True(t, res.Authorized(), tx)
			require.Equal(t, tx, res.TransactionID)
		}
	})

	t.Run("malformed amount on an authentic callback is an error", func(t *testing.T) {
		res, err := VerifyCallback(callbackParams("T1000", "abc", "DAD64C6AE84B66FAC1017BA59E5551D6"), callbackSettings("N"), nil)

		require.ErrorIs(t, err, ErrInvalidAmount)
		require.Nil(t, res)
	})

	t.Run("missing parameters never authorize", func(t *testing.T) {
		log := &recordingLogger{}

		res, err := VerifyCallback(url.Values{}, callbackSettings("N"), log)

		require.NoError(t, err)
		require.False(t, res.Authorized())
		require.Len(t, log.messages, 1)
	})
}

func TestLoggerFunc(t *testing.T) {
	var got string
	LoggerFunc(func(m string) { got = m }).Log("hello")
	require.Equal(t, "hello", got)
}
