// Package export writes admin reports as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
	"github.com/your-org/kbeauty-storefront/internal/domain/order"
)

// ContentType is the MIME type of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var orderHeaders = []string{
	"N° commande", "Date", "Statut", "Client", "Téléphone", "Ville", "Gouvernorat",
	"Articles", "Sous-total (TND)", "Livraison (TND)", "Remise (TND)", "Total (TND)", "Paiement",
}

var itemHeaders = []string{
	"N° commande", "Produit", "Marque", "Quantité", "Prix unitaire (TND)", "Total (TND)",
}

// Orders builds a workbook with one sheet of orders and one of order lines
func Orders(orders []order.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Commandes")
	if err != nil {
		return nil, fmt.Errorf("failed to create orders sheet: %w", err)
	}
	addHeader(sheet, orderHeaders)

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(o.OrderNumber)
		row.AddCell().SetString(o.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetString(o.Status.Label())
		row.AddCell().SetString(o.ShippingAddress.FullName)
		row.AddCell().SetString(o.ShippingAddress.Phone)
		row.AddCell().SetString(o.ShippingAddress.City)
		row.AddCell().SetString(o.ShippingAddress.Governorate)
		row.AddCell().SetInt(o.ItemCount())
		row.AddCell().SetFloat(o.SubtotalTND.InexactFloat64())
		row.AddCell().SetFloat(o.DeliveryFeeTND.InexactFloat64())
		row.AddCell().SetFloat(o.DiscountTND.InexactFloat64())
		row.AddCell().SetFloat(o.TotalTND.InexactFloat64())
		row.AddCell().SetString(o.PaymentMethod)
	}

	items, err := file.AddSheet("Articles")
	if err != nil {
		return nil, fmt.Errorf("failed to create items sheet: %w", err)
	}
	addHeader(items, itemHeaders)

	for _, o := range orders {
		for _, it := range o.Items {
			row := items.AddRow()
			row.AddCell().SetString(o.OrderNumber)
			row.AddCell().SetString(it.ProductName)
			row.AddCell().SetString(it.Brand)
			row.AddCell().SetInt(it.Quantity)
			row.AddCell().SetFloat(it.UnitPriceTND.InexactFloat64())
			row.AddCell().SetFloat(it.LineTotal().InexactFloat64())
		}
	}

	return file, nil
}

// WriteOrders writes the orders workbook to w
func WriteOrders(w io.Writer, orders []order.Order) error {
	file, err := Orders(orders)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, h := range headers {
		cell := row.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		style.Font.Bold = true
		style.ApplyFont = true
		cell.SetStyle(style)
	}
}
