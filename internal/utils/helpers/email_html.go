package helpers

import "fmt"

func BuildOTPHTML(name, code string, ttlMinutes int) string {
	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="500" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>
                <h2 style="color:#2d74da; margin-top:0;">Подтверждение почты</h2>
                <p style="font-size:16px; color:#222;">Здравствуйте, %s!</p>
                <p style="font-size:16px; color:#222;">Ваш код подтверждения:</p>
                <p style="font-size:32px; letter-spacing:8px; font-weight:bold; color:#2d74da;">%s</p>
                <p style="font-size:14px; color:#666;">Код действует %d минут и может быть использован только один раз.</p>
                <hr style="margin:32px 0 16px 0; border:0; border-top:1px solid #eee;">
                <div style="font-size:12px; color:#999;">Письмо сгенерировано автоматически. Не отвечайте на него.</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, name, code, ttlMinutes)
}
