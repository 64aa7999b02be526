package demoapp

import "html/template"

// recaptchaPage renders the invisible-v2 challenge page. The harness keys
// off two elements: #verifyBtn (enabled once the widget is ready) and
// #verdict (role=status, filled with the verdict string after /api/verify).
var recaptchaPage = template.Must(template.New("recaptcha").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>Invisible v2 test</title>
  <script src="https://www.google.com/recaptcha/api.js?onload=recaptchaReady&render=explicit" async defer></script>
</head>
<body>
  <h1>reCAPTCHA challenge</h1>
  <button id="verifyBtn" disabled>Verify</button>
  <div id="verdict" role="status" aria-live="polite"></div>
  <script>
    var widgetId = null;
    function recaptchaReady() {
      widgetId = grecaptcha.render('verifyBtn', {
        sitekey: '{{.SiteKey}}',
        size: 'invisible',
        callback: onToken
      });
      document.getElementById('verifyBtn').disabled = false;
    }
    function triggerVerify() {
      if (widgetId !== null) {
        grecaptcha.execute(widgetId);
      }
    }
    window.triggerVerify = triggerVerify;
    async function onToken(token) {
      var verdict = document.getElementById('verdict');
      try {
        var res = await fetch('/api/verify', {
          method: 'POST',
          headers: {'Content-Type': 'application/json'},
          body: JSON.stringify({token: token})
        });
        var data = await res.json();
        verdict.textContent = data.verdict || ('FAIL: ' + (data.reason || 'unknown'));
      } catch (e) {
        verdict.textContent = 'FAIL: ' + e;
      }
      grecaptcha.reset(widgetId);
    }
  </script>
</body>
</html>
`))
