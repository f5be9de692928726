package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// AccessTokenCookieName is the cookie that carries the access token for
// browser-facing gateways.
const AccessTokenCookieName = "accessToken"

// OTPDigits is the length of the numeric verification code.
const OTPDigits = 6
