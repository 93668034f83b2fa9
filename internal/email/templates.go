package email

import (
	"fmt"
	"html"
	"strings"

	"ecobank/internal/models"
)

func generateBadgeHTML(b models.Badge) string {
	var rewards strings.Builder
	if b.Discount != "" {
		fmt.Fprintf(&rewards, "<li>💸 %s</li>\n", html.EscapeString(b.Discount))
	}
	for _, prize := range b.Prizes {
		fmt.Fprintf(&rewards, "<li>🎁 %s</li>\n", html.EscapeString(prize))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>New badge earned</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f4f8f4;
        }
        .container {
            background-color: white;
            padding: 40px;
            border-radius: 12px;
            box-shadow: 0 2px 10px rgba(0, 0, 0, 0.1);
        }
        .header {
            text-align: center;
            margin-bottom: 30px;
        }
        .icon {
            font-size: 48px;
        }
        .title {
            font-size: 24px;
            color: #2d5e3e;
        }
        .footer {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 1px solid #e9ecef;
            font-size: 14px;
            color: #6c757d;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <div class="icon">%s</div>
            <div class="title">%s</div>
        </div>

        <div class="content">
            <p>%s</p>
            <p><strong>Redeem at:</strong> %s</p>
            <ul>
%s            </ul>
        </div>

        <div class="footer">
            <p>Earned on %s</p>
            <p>The EcoBank Team</p>
        </div>
    </div>
</body>
</html>`,
		html.EscapeString(b.Icon),
		html.EscapeString(b.Name),
		html.EscapeString(b.Description),
		html.EscapeString(strings.Join(b.Stores, ", ")),
		rewards.String(),
		b.EarnedAt.Format("2 January 2006"),
	)
}

func generateBadgeText(b models.Badge) string {
	var rewards strings.Builder
	if b.Discount != "" {
		fmt.Fprintf(&rewards, "- %s\n", b.Discount)
	}
	for _, prize := range b.Prizes {
		fmt.Fprintf(&rewards, "- %s\n", prize)
	}

	return fmt.Sprintf(`%s %s

%s

Redeem at: %s
%s
Earned on %s

The EcoBank Team`, b.Icon, b.Name, b.Description, strings.Join(b.Stores, ", "), rewards.String(), b.EarnedAt.Format("2 January 2006"))
}
