package receipt

import "errors"

// Platform identifies the mobile store a purchase originated from.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// ErrMalformedPayload is returned when the client payload is missing the
// nested purchase object or the fields its platform requires.
var ErrMalformedPayload = errors.New("could not find purchase information in request body")

// Purchase is the nested purchase object sent by react-native-iap clients
// (snake_case field naming).
type Purchase struct {
	DataAndroid        string `json:"data_android"`
	SignatureAndroid   string `json:"signature_android"`
	TransactionReceipt string `json:"transaction_receipt"`
}

// ClientPayload is the request body a mobile client submits for either
// platform. CountryCode and IdentifierForVendor live at the top level,
// not inside the purchase object.
type ClientPayload struct {
	Purchase            *Purchase `json:"purchase"`
	CountryCode         string    `json:"country_code"`
	IdentifierForVendor string    `json:"identifier_for_vendor"`
}

// normalizers maps each supported platform to its canonical body builder.
// Adding a platform means adding one entry here.
var normalizers = map[Platform]func(*ClientPayload) (map[string]interface{}, error){
	PlatformAndroid: normalizeAndroid,
	PlatformIOS:     normalizeIOS,
}

// Normalize maps a client payload onto the canonical body the upstream
// Client API expects for the given platform. The result is built fresh per
// call and never contains keys the input did not supply; optional fields
// are omitted rather than set to null.
func Normalize(platform Platform, payload *ClientPayload) (map[string]interface{}, error) {
	normalize, ok := normalizers[platform]
	if !ok {
		return nil, ErrMalformedPayload
	}
	if payload == nil || payload.Purchase == nil {
		return nil, ErrMalformedPayload
	}
	return normalize(payload)
}

func normalizeAndroid(payload *ClientPayload) (map[string]interface{}, error) {
	purchase := payload.Purchase
	if purchase.DataAndroid == "" || purchase.SignatureAndroid == "" {
		return nil, ErrMalformedPayload
	}
	return map[string]interface{}{
		"purchase_data":      purchase.DataAndroid,
		"purchase_signature": purchase.SignatureAndroid,
	}, nil
}

func normalizeIOS(payload *ClientPayload) (map[string]interface{}, error) {
	purchase := payload.Purchase
	if purchase.TransactionReceipt == "" {
		return nil, ErrMalformedPayload
	}
	body := map[string]interface{}{
		"receipt": purchase.TransactionReceipt,
	}
	if payload.CountryCode != "" {
		body["country_code"] = payload.CountryCode
	}
	if payload.IdentifierForVendor != "" {
		body["identifier_for_vendor"] = payload.IdentifierForVendor
	}
	return body, nil
}
