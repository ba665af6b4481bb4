// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"
	"github.com/your-org/kbeauty-storefront/internal/config"
	"github.com/your-org/kbeauty-storefront/internal/domain/order"
)

// Service renders order receipts
type Service struct {
	company CompanyInfo
	now     func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg config.ReceiptConfig) *Service {
	return &Service{
		company: CompanyInfo{
			Name:    cfg.CompanyName,
			Address: cfg.CompanyAddress,
			Phone:   cfg.CompanyPhone,
			Email:   cfg.CompanyEmail,
			Website: cfg.CompanyWebsite,
		},
		now: time.Now,
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string
	IssuedAt      string
	OrderedAt     string
	StatusLabel   string
	Order         *order.Order
	Lines         []ReceiptLine
	Company       CompanyInfo
}

// ReceiptLine is one printed item row
type ReceiptLine struct {
	Name      string
	Brand     string
	Quantity  int
	UnitPrice string
	Total     string
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Website string
}

// GenerateReceipt renders o as a PDF
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(o)
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(htmlContent))
	page.FooterRight.Set("[page]/[topage]")
	page.FooterFontSize.Set(9)
	page.Encoding.Set("utf-8")
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML renders the receipt page wkhtmltopdf prints
func (s *Service) RenderHTML(o *order.Order) ([]byte, error) {
	data := ReceiptData{
		ReceiptNumber: "REC-" + o.OrderNumber,
		IssuedAt:      s.now().Format("02/01/2006"),
		OrderedAt:     o.CreatedAt.Format("02/01/2006 15:04"),
		StatusLabel:   o.Status.Label(),
		Order:         o,
		Company:       s.company,
	}
	for _, it := range o.Items {
		data.Lines = append(data.Lines, ReceiptLine{
			Name:      it.ProductName,
			Brand:     it.Brand,
			Quantity:  it.Quantity,
			UnitPrice: formatTND(it.UnitPriceTND),
			Total:     formatTND(it.LineTotal()),
		})
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTND(d decimal.Decimal) string {
	return d.StringFixed(3) + " TND"
}

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"tnd": formatTND,
}).Parse(receiptHTML))

const receiptHTML = `<!DOCTYPE html>
<html lang="fr">
<head>
    <meta charset="UTF-8">
    <title>Reçu {{.ReceiptNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; color: #2b2b2b; margin: 0; padding: 24px; }
        .header { display: flex; justify-content: space-between; border-bottom: 2px solid #c9a27e; padding-bottom: 16px; }
        .company h1 { margin: 0; font-size: 22px; color: #c9a27e; }
        .meta { text-align: right; font-size: 12px; }
        .section { margin-top: 24px; font-size: 12px; }
        table { width: 100%; border-collapse: collapse; margin-top: 16px; font-size: 12px; }
        th { background: #f7f1ea; text-align: left; padding: 8px; }
        td { padding: 8px; border-bottom: 1px solid #eee; }
        .num { text-align: right; }
        .totals { margin-top: 16px; width: 40%; margin-left: auto; font-size: 12px; }
        .totals td { border: none; padding: 4px 8px; }
        .grand { font-weight: bold; font-size: 14px; border-top: 1px solid #2b2b2b; }
        .footer { margin-top: 32px; font-size: 10px; color: #888; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <div class="company">
            <h1>{{.Company.Name}}</h1>
            <div>{{.Company.Address}}</div>
            <div>{{.Company.Phone}} · {{.Company.Email}}</div>
        </div>
        <div class="meta">
            <div><strong>{{.ReceiptNumber}}</strong></div>
            <div>Commande {{.Order.OrderNumber}}</div>
            <div>Passée le {{.OrderedAt}}</div>
            <div>Émis le {{.IssuedAt}}</div>
            <div>Statut : {{.StatusLabel}}</div>
        </div>
    </div>

    <div class="section">
        <strong>Livraison</strong><br>
        {{with .Order.ShippingAddress}}
        {{.FullName}}<br>
        {{.AddressLine1}}{{if .AddressLine2}}, {{.AddressLine2}}{{end}}<br>
        {{.PostalCode}} {{.City}}, {{.Governorate}}<br>
        Tél. {{.Phone}}
        {{end}}
        {{if .Order.DeliveryNotes}}<br><em>{{.Order.DeliveryNotes}}</em>{{end}}
    </div>

    <table>
        <thead>
            <tr><th>Produit</th><th>Marque</th><th class="num">Qté</th><th class="num">Prix unitaire</th><th class="num">Total</th></tr>
        </thead>
        <tbody>
            {{range .Lines}}
            <tr><td>{{.Name}}</td><td>{{.Brand}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Total}}</td></tr>
            {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr><td>Sous-total</td><td class="num">{{tnd .Order.SubtotalTND}}</td></tr>
        <tr><td>Livraison</td><td class="num">{{tnd .Order.DeliveryFeeTND}}</td></tr>
        {{if .Order.DiscountTND.IsPositive}}<tr><td>Remise</td><td class="num">-{{tnd .Order.DiscountTND}}</td></tr>{{end}}
        <tr class="grand"><td>Total</td><td class="num">{{tnd .Order.TotalTND}}</td></tr>
    </table>

    <div class="section">Paiement à la livraison</div>

    <div class="footer">{{.Company.Website}}</div>
</body>
</html>`
