// ABOUTME: HTTP client for a PostgREST (Supabase-style) professors table.
// ABOUTME: Decodes rows with optional embedded department, university, and subject joins.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2389-research/profsearch/internal/models"
)

// DefaultTable is the professors table queried when none is configured.
const DefaultTable = "profesores"

// professorSelect asks PostgREST to embed the department, its university, and the subject names.
const professorSelect = "id,nombre,biografia," +
	"departamento:departamentos(nombre,universidad:universidades(nombre))," +
	"materias:profesor_materias(materia:materias(nombre))"

// RestClient reads professors from a PostgREST endpoint.
type RestClient struct {
	baseURL string
	apiKey  string
	table   string
	client  *http.Client
}

// NewRestClient creates a client for the given project URL, anon key, and table.
func NewRestClient(baseURL, apiKey, table string) *RestClient {
	baseURL = strings.TrimRight(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/rest/v1")
	if table == "" {
		table = DefaultTable
	}
	return &RestClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		table:   table,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// professorRow maps one row of the professors select. Joined records are
// pointers because PostgREST returns null when the foreign key is unset.
type professorRow struct {
	ID           storeID          `json:"id"`
	Nombre       string           `json:"nombre"`
	Biografia    *string          `json:"biografia"`
	Departamento *departmentRow   `json:"departamento"`
	Materias     []subjectLinkRow `json:"materias"`
}

// storeID is a primary key encoded as a JSON string or number.
type storeID string

func (id *storeID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = storeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", data)
	}
	*id = storeID(n.String())
	return nil
}

type departmentRow struct {
	Nombre      string         `json:"nombre"`
	Universidad *universityRow `json:"universidad"`
}

type universityRow struct {
	Nombre string `json:"nombre"`
}

// subjectLinkRow is one row of the professor/subject join table.
type subjectLinkRow struct {
	Materia *subjectRow `json:"materia"`
}

type subjectRow struct {
	Nombre string `json:"nombre"`
}

func (r professorRow) toProfessor() (*models.Professor, error) {
	id := strings.TrimSpace(string(r.ID))
	if id == "" {
		return nil, fmt.Errorf("professor %q has no id", r.Nombre)
	}
	p := &models.Professor{ID: id, Name: r.Nombre}
	if r.Biografia != nil {
		p.Bio = *r.Biografia
	}
	if d := r.Departamento; d != nil {
		p.Department = d.Nombre
		if d.Universidad != nil {
			p.University = d.Universidad.Nombre
		}
	}
	p.Subjects = make([]string, 0, len(r.Materias))
	for _, link := range r.Materias {
		if link.Materia != nil && link.Materia.Nombre != "" {
			p.Subjects = append(p.Subjects, link.Materia.Nombre)
		}
	}
	return p, nil
}

// ListProfessors fetches professors ordered by name.
func (c *RestClient) ListProfessors(ctx context.Context, opts ListOptions) ([]*models.Professor, error) {
	req, err := c.newRequest(ctx, professorSelect)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("order", "nombre.asc")
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("store returned %d: %s", resp.StatusCode, string(respBody))
	}

	var rows []professorRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	professors := make([]*models.Professor, 0, len(rows))
	for _, row := range rows {
		p, err := row.toProfessor()
		if err != nil {
			return nil, fmt.Errorf("invalid row: %w", err)
		}
		professors = append(professors, p)
	}
	return professors, nil
}

// Ping checks that the table is reachable with the configured key.
func (c *RestClient) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, "id")
	if err != nil {
		return err
	}
	q := req.URL.Query()
	q.Set("limit", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("store request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("invalid API key (HTTP %d)", resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("table %q not found (HTTP 404)", c.table)
	case resp.StatusCode >= 400:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("store returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Close releases idle connections.
func (c *RestClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

func (c *RestClient) newRequest(ctx context.Context, selectCols string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/"+c.table, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	q := req.URL.Query()
	q.Set("select", selectCols)
	req.URL.RawQuery = q.Encode()
	return req, nil
}

var _ ProfessorStore = (*RestClient)(nil)
