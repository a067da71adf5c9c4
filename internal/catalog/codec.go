package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pricebench/internal/model"
)

const (
	recordCustomer = "customer"
	recordProduct  = "product"
)

// Decode reads a gzipped snapshot. Each non-blank line not starting with '#'
// is one record:
//
//	customer,<id>,<tier>,<discountRate>,<creditLimit>,<region>[,<name>[,<email>]]
//	product,<id>,<price>,<category>,<taxRate>,<weight>[,<name>]
func Decode(ctx context.Context, r io.Reader) (*model.CatalogSnapshot, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	snapshot := &model.CatalogSnapshot{}

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		switch fields[0] {
		case recordCustomer:
			c, err := parseCustomer(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			snapshot.Customers = append(snapshot.Customers, c)
		case recordProduct:
			p, err := parseProduct(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			snapshot.Products = append(snapshot.Products, p)
		default:
			return nil, fmt.Errorf("line %d: unknown record type %q", lineNo, fields[0])
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	return snapshot, nil
}

func parseCustomer(f []string) (model.Customer, error) {
	if len(f) < 5 || len(f) > 7 {
		return model.Customer{}, fmt.Errorf("customer record has %d fields, want 5 to 7", len(f))
	}

	id, err := strconv.ParseInt(f[0], 10, 64)
	if err != nil {
		return model.Customer{}, fmt.Errorf("invalid customer id %q: %w", f[0], err)
	}
	discountRate, err := strconv.ParseFloat(f[2], 64)
	if err != nil {
		return model.Customer{}, fmt.Errorf("invalid discount rate %q: %w", f[2], err)
	}
	creditLimit, err := strconv.ParseFloat(f[3], 64)
	if err != nil {
		return model.Customer{}, fmt.Errorf("invalid credit limit %q: %w", f[3], err)
	}

	c := model.Customer{
		ID:           id,
		Tier:         model.Tier(f[1]),
		DiscountRate: discountRate,
		CreditLimit:  creditLimit,
		Region:       model.Region(f[4]),
	}
	if len(f) > 5 {
		c.Name = f[5]
	}
	if len(f) > 6 {
		c.Email = f[6]
	}
	return c, nil
}

func parseProduct(f []string) (model.Product, error) {
	if len(f) < 5 || len(f) > 6 {
		return model.Product{}, fmt.Errorf("product record has %d fields, want 5 or 6", len(f))
	}

	id, err := strconv.ParseInt(f[0], 10, 64)
	if err != nil {
		return model.Product{}, fmt.Errorf("invalid product id %q: %w", f[0], err)
	}
	price, err := strconv.ParseFloat(f[1], 64)
	if err != nil || price < 0 {
		return model.Product{}, fmt.Errorf("invalid price %q", f[1])
	}
	taxRate, err := strconv.ParseFloat(f[3], 64)
	if err != nil {
		return model.Product{}, fmt.Errorf("invalid tax rate %q: %w", f[3], err)
	}
	weight, err := strconv.ParseFloat(f[4], 64)
	if err != nil || weight < 0 {
		return model.Product{}, fmt.Errorf("invalid weight %q", f[4])
	}

	p := model.Product{
		ID:       id,
		Price:    price,
		Category: model.Category(f[2]),
		TaxRate:  taxRate,
		Weight:   weight,
	}
	if len(f) > 5 {
		p.Name = f[5]
	}
	return p, nil
}

// Encode writes snapshot in the format read by Decode.
func Encode(w io.Writer, snapshot model.CatalogSnapshot) error {
	gzipWriter := gzip.NewWriter(w)
	buf := bufio.NewWriter(gzipWriter)

	for _, c := range snapshot.Customers {
		if _, err := fmt.Fprintf(buf, "%s,%d,%s,%s,%s,%s,%s,%s\n",
			recordCustomer, c.ID, c.Tier,
			formatFloat(c.DiscountRate), formatFloat(c.CreditLimit),
			c.Region, c.Name, c.Email); err != nil {
			return fmt.Errorf("failed to write customer %d: %w", c.ID, err)
		}
	}

	for _, p := range snapshot.Products {
		if _, err := fmt.Fprintf(buf, "%s,%d,%s,%s,%s,%s,%s\n",
			recordProduct, p.ID, formatFloat(p.Price), p.Category,
			formatFloat(p.TaxRate), formatFloat(p.Weight), p.Name); err != nil {
			return fmt.Errorf("failed to write product %d: %w", p.ID, err)
		}
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
