package mailer

import "fmt"

// VerifyEmail renders the account-confirmation message. url embeds the
// one-time verification code.
func VerifyEmail(url string) (subject string, html string) {
	subject = "Confirm your email address"
	html = fmt.Sprintf(`<html><body>
<h2>Confirm your email address</h2>
<p>Thanks for signing up. Click the link below to verify your email address. The link expires in 45 minutes.</p>
<p><a href=%q>Confirm account</a></p>
<p>If you did not create an account, you can ignore this message.</p>
</body></html>`, url)
	return subject, html
}
