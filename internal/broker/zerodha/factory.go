package zerodha

import (
	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

func newKiteClient(apiKey, accessToken string) kiteAPI {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return kc
}
