package event

// OTPDeliveryDestination is the default topic consumed by the notification service.
const OTPDeliveryDestination string = "notification-events"

// OTPDeliveryType tags OTP messages on the shared notification topic.
const OTPDeliveryType string = "OTP"

// OTPDeliveryMessage is the payload the notification service renders into an SMS/push.
// The message key is the mobile number.
type OTPDeliveryMessage struct {
	Type   string `json:"type"`
	Mobile string `json:"mobile"`
	OTP    string `json:"otp"`
}
