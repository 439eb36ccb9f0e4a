package otp

import "fmt"

// Template pairs an email subject with a body format. Render fills in the
// recipient name and the one-time code.
type Template struct {
	Subject string
	body    string
}

var (
	UserActivation = Template{
		Subject: "Verify your email",
		body: "Hello %s,\n\n" +
			"Your verification code is %s. It expires in 5 minutes.\n\n" +
			"If you did not request this, you can safely ignore this email.\n",
	}

	SellerActivation = Template{
		Subject: "Verify your seller account",
		body: "Hello %s,\n\n" +
			"Your seller account verification code is %s. It expires in 5 minutes.\n\n" +
			"If you did not request this, you can safely ignore this email.\n",
	}

	ForgotPassword = Template{
		Subject: "Reset your password",
		body: "Hello %s,\n\n" +
			"Your password reset code is %s. It expires in 5 minutes.\n\n" +
			"If you did not request a password reset, please secure your account.\n",
	}
)

func (t Template) Render(name, code string) string {
	return fmt.Sprintf(t.body, name, code)
}
