package paymentControllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Gateway wraps the payment processor's REST API: create intent, create
// method, confirm (which yields the QR), and retrieve status. The processor
// is the source of truth for payment state; nothing here is persisted.
type Gateway struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

func NewGateway(baseURL, secretKey string) *Gateway {
	return &Gateway{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		SecretKey: secretKey,
		Client:    &http.Client{},
	}
}

type PaymentIntent struct {
	ID                 string            `json:"id"`
	Amount             int64             `json:"amount"`
	Currency           string            `json:"currency"`
	Status             string            `json:"status"`
	PaymentMethodTypes []string          `json:"payment_method_types"`
	Metadata           map[string]string `json:"metadata"`
	NextAction         *NextAction       `json:"next_action,omitempty"`
}

type NextAction struct {
	PromptpayDisplayQRCode *QRCode `json:"promptpay_display_qr_code,omitempty"`
}

type QRCode struct {
	Data        string `json:"data"`
	ImageURLPNG string `json:"image_url_png"`
}

type PaymentMethod struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	BillingDetails struct {
		Email string `json:"email"`
	} `json:"billing_details"`
}

type gatewayError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ItemMetadata is the per-item snapshot attached to an intent. Prices are in
// minor currency units.
type ItemMetadata struct {
	ProductID uint   `json:"id"`
	Price     int64  `json:"price"`
	Name      string `json:"name"`
}

// CreatePaymentIntent requests an intent for an amount in minor units,
// carrying the cart snapshot as metadata.
func (g *Gateway) CreatePaymentIntent(amount int64, currency, methodType string, items []ItemMetadata) (*PaymentIntent, error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode item metadata: %v", err)
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", methodType)
	form.Set("metadata[items]", string(itemsJSON))

	var intent PaymentIntent
	if err := g.post("/v1/payment_intents", form, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CreatePaymentMethod requests a method of the given type with a billing
// email attached.
func (g *Gateway) CreatePaymentMethod(methodType, email string) (*PaymentMethod, error) {
	form := url.Values{}
	form.Set("type", methodType)
	form.Set("billing_details[email]", email)

	var method PaymentMethod
	if err := g.post("/v1/payment_methods", form, &method); err != nil {
		return nil, err
	}
	return &method, nil
}

// ConfirmPaymentIntent attaches the method and confirms, which makes the
// gateway mint the scannable QR under next_action.
func (g *Gateway) ConfirmPaymentIntent(intentID, methodID string) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("payment_method", methodID)

	var intent PaymentIntent
	if err := g.post("/v1/payment_intents/"+intentID+"/confirm", form, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// GetPaymentIntent fetches the current state of an intent.
func (g *Gateway) GetPaymentIntent(intentID string) (*PaymentIntent, error) {
	req, err := http.NewRequest(http.MethodGet, g.BaseURL+"/v1/payment_intents/"+intentID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.SecretKey)

	var intent PaymentIntent
	if err := g.do(req, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// QRImageURL pulls the QR image URL out of a confirmed intent.
func (i *PaymentIntent) QRImageURL() string {
	if i.NextAction != nil && i.NextAction.PromptpayDisplayQRCode != nil {
		return i.NextAction.PromptpayDisplayQRCode.ImageURLPNG
	}
	return ""
}

// Items decodes the cart snapshot stored in the intent's metadata.
func (i *PaymentIntent) Items() []ItemMetadata {
	raw, ok := i.Metadata["items"]
	if !ok {
		return nil
	}
	var items []ItemMetadata
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

func (g *Gateway) post(path string, form url.Values, out interface{}) error {
	req, err := http.NewRequest(http.MethodPost, g.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return g.do(req, out)
}

func (g *Gateway) do(req *http.Request, out interface{}) error {
	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach payment gateway: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var gwErr gatewayError
		if err := json.Unmarshal(body, &gwErr); err == nil && gwErr.Error.Message != "" {
			return fmt.Errorf("gateway error: %s", gwErr.Error.Message)
		}
		return fmt.Errorf("gateway API error (%d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse gateway response: %v", err)
	}
	return nil
}
