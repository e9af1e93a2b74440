// Package docintel implementa el colaborador de análisis de documentos sobre
// la API REST de Azure Document Intelligence (modelo prebuilt-invoice).
// Usa net/http de la librería estándar de Go; no requiere el SDK oficial.
package docintel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/application/capture"
)

// Verificar en tiempo de compilación que AzureService implementa DocumentAnalyzer.
var _ capture.DocumentAnalyzer = (*AzureService)(nil)

const (
	apiVersion   = "2023-07-31"
	analyzePath  = "/formrecognizer/documentModels/prebuilt-invoice:analyze"
	pollInterval = 2 * time.Second
	pollTimeout  = 90 * time.Second
)

// AzureService adaptador del análisis de facturas. El protocolo es asíncrono:
// el POST devuelve 202 con Operation-Location y el resultado se obtiene
// haciendo polling de esa URL.
type AzureService struct {
	endpoint   string
	key        string
	httpClient *http.Client
}

// NewAzureService construye el adaptador.
// Si endpoint o key están vacíos, las llamadas devuelven error descriptivo en lugar de panic.
func NewAzureService(endpoint, key string) *AzureService {
	return &AzureService{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ── Estructuras del protocolo de Azure Document Intelligence ──────────────────

type analyzeResponse struct {
	Status        string `json:"status"` // notStarted | running | succeeded | failed
	AnalyzeResult *struct {
		Content   string `json:"content"`
		Documents []struct {
			Fields map[string]azureField `json:"fields"`
		} `json:"documents"`
	} `json:"analyzeResult"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type azureField struct {
	Type          string  `json:"type"`
	ValueString   string  `json:"valueString"`
	ValueDate     string  `json:"valueDate"`
	ValueNumber   *float64 `json:"valueNumber"`
	ValueCurrency *struct {
		Amount       float64 `json:"amount"`
		CurrencyCode string  `json:"currencyCode"`
	} `json:"valueCurrency"`
	Content    string `json:"content"`
	ValueArray []struct {
		ValueObject map[string]azureField `json:"valueObject"`
	} `json:"valueArray"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Analyze envía el documento, espera el resultado y lo normaliza al registro
// neutro del dominio. Cualquier fallo (HTTP, análisis failed, timeout) se
// devuelve tal cual; el caso de uso lo reporta como error de servicio externo.
func (s *AzureService) Analyze(ctx context.Context, filename string, content []byte) (*capture.AnalyzedInvoice, error) {
	if s.endpoint == "" || s.key == "" {
		return nil, fmt.Errorf("docintel: AZURE_DOCINTEL_ENDPOINT/KEY no configurados")
	}

	operationURL, err := s.submit(ctx, content)
	if err != nil {
		return nil, err
	}

	result, err := s.poll(ctx, operationURL)
	if err != nil {
		return nil, err
	}
	return normalize(result), nil
}

// submit envía el PDF y devuelve la Operation-Location para el polling.
func (s *AzureService) submit(ctx context.Context, content []byte) (string, error) {
	url := s.endpoint + analyzePath + "?api-version=" + apiVersion
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("docintel: crear HTTP request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.key)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("docintel: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		rawBody, _ := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
		return "", fmt.Errorf("docintel: Azure HTTP %d: %s", resp.StatusCode, string(rawBody))
	}
	operationURL := resp.Header.Get("Operation-Location")
	if operationURL == "" {
		return "", fmt.Errorf("docintel: respuesta 202 sin Operation-Location")
	}
	return operationURL, nil
}

// poll consulta la operación hasta succeeded/failed o hasta agotar el plazo.
func (s *AzureService) poll(ctx context.Context, operationURL string) (*analyzeResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
		if err != nil {
			return nil, fmt.Errorf("docintel: crear HTTP request: %w", err)
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", s.key)

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("docintel: polling fallido: %w", err)
		}
		rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("docintel: leer respuesta: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("docintel: Azure HTTP %d: %s", resp.StatusCode, string(rawBody))
		}

		var result analyzeResponse
		if err := json.Unmarshal(rawBody, &result); err != nil {
			return nil, fmt.Errorf("docintel: deserializar respuesta: %w", err)
		}

		switch result.Status {
		case "succeeded":
			return &result, nil
		case "failed":
			if result.Error != nil {
				return nil, fmt.Errorf("docintel: análisis falló (%s): %s", result.Error.Code, result.Error.Message)
			}
			return nil, fmt.Errorf("docintel: análisis falló sin detalle")
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("docintel: timeout esperando el análisis: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// normalize mapea los campos del modelo prebuilt-invoice al registro neutro.
// Campos no detectados quedan vacíos/nil.
func normalize(result *analyzeResponse) *capture.AnalyzedInvoice {
	out := &capture.AnalyzedInvoice{}
	if result.AnalyzeResult == nil {
		return out
	}
	out.RawText = result.AnalyzeResult.Content
	if len(result.AnalyzeResult.Documents) == 0 {
		return out
	}
	fields := result.AnalyzeResult.Documents[0].Fields

	out.VendorName = fieldText(fields, "VendorName")
	out.InvoiceNumber = fieldText(fields, "InvoiceId")
	out.InvoiceDate = fieldText(fields, "InvoiceDate")
	out.DueDate = fieldText(fields, "DueDate")
	out.Subtotal = fieldAmount(fields, "SubTotal")
	out.TaxTotal = fieldAmount(fields, "TotalTax")
	out.Total = fieldAmount(fields, "InvoiceTotal")
	out.CustomerName = fieldText(fields, "CustomerName")
	out.CustomerAddress = fieldText(fields, "CustomerAddress")
	out.VendorAddress = fieldText(fields, "VendorAddress")
	if f, ok := fields["InvoiceTotal"]; ok && f.ValueCurrency != nil {
		out.Currency = f.ValueCurrency.CurrencyCode
	}

	if items, ok := fields["Items"]; ok {
		for _, row := range items.ValueArray {
			obj := row.ValueObject
			out.Items = append(out.Items, capture.AnalyzedItem{
				Description: fieldText(obj, "Description"),
				SKU:         fieldText(obj, "ProductCode"),
				Unit:        fieldText(obj, "Unit"),
				Date:        fieldText(obj, "Date"),
				Quantity:    fieldAmount(obj, "Quantity"),
				UnitPrice:   fieldAmount(obj, "UnitPrice"),
				LineTotal:   fieldAmount(obj, "Amount"),
				TaxAmount:   fieldAmount(obj, "Tax"),
			})
		}
	}
	return out
}

func fieldText(fields map[string]azureField, name string) string {
	f, ok := fields[name]
	if !ok {
		return ""
	}
	if f.ValueString != "" {
		return f.ValueString
	}
	if f.ValueDate != "" {
		return f.ValueDate
	}
	return strings.TrimSpace(f.Content)
}

// fieldAmount extrae un monto: primero los valores tipados, luego el texto
// crudo tolerando símbolos de moneda y separadores de miles.
func fieldAmount(fields map[string]azureField, name string) *decimal.Decimal {
	f, ok := fields[name]
	if !ok {
		return nil
	}
	if f.ValueCurrency != nil {
		d := decimal.NewFromFloat(f.ValueCurrency.Amount)
		return &d
	}
	if f.ValueNumber != nil {
		d := decimal.NewFromFloat(*f.ValueNumber)
		return &d
	}
	raw := strings.TrimSpace(strings.NewReplacer("$", "", ",", "", "CAD", "", "USD", "").Replace(f.Content))
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}
