package helpers

import "fmt"

// BuildResetPasswordHTML собирает письмо со ссылкой на сброс пароля.
func BuildResetPasswordHTML(resetLink string) string {
	body := fmt.Sprintf(`
      <h2>Reset Password using this link:</h2>
      <p><a href="%s" style="display:inline-block;padding:12px 24px;background:#2d74da;color:#fff;text-decoration:none;border-radius:6px;font-weight:600;">Reset Password Link</a></p>
      <p style="font-size:12px;color:#999;margin-top:16px;">Если кнопка не работает — скопируйте ссылку: %s</p>
    `, resetLink, resetLink)
	return BuildSimpleHTML("Reset Password", body)
}

// BuildSimpleHTML — общая обёртка письма: заголовок + произвольное тело.
func BuildSimpleHTML(title, body string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
  <body style="margin:0;padding:24px;background:#f4f6f8;font-family:Arial,sans-serif;">
    <div style="max-width:560px;margin:0 auto;background:#fff;border-radius:8px;padding:32px;">
      <h1 style="font-size:20px;color:#222;margin:0 0 24px 0;">%s</h1>
      %s
    </div>
  </body>
</html>`, title, body)
}
