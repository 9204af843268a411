package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"cranequote/testhelpers"
)

func multipartUpload(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte(content))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/equipment/rates/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHandleRateTemplateDownload(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/equipment/rates/template", nil)
	rec := httptest.NewRecorder()

	if err := HandleRateTemplateDownload()(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Header().Get("Content-Type") != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if rec.Body.Len() == 0 {
		t.Error("expected non-empty template")
	}
}

func TestHandleRateImport_CreatesAndUpdates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	existing := testhelpers.CreateTestEquipment(t, app, "Tadano GR-300EX", 1, 1, 1, 1)

	csv := "Equipment Name *,Capacity,Category,Micro Rate (per hr),Small Rate (per hr),Monthly Rate,Yearly Rate\n" +
		"tadano gr-300ex,30 Ton,mobile_crane,2500,2200,\"4,50,000\",4800000\n" +
		"Escorts F15,15 Ton,pick_and_carry,1100,950,185000,\n"
	req := multipartUpload(t, "rates.csv", csv)
	rec := httptest.NewRecorder()

	if err := HandleRateImport(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "2 row(s) imported: 1 new, 1 updated.")

	updated, _ := app.FindRecordById("equipment", existing.Id)
	if updated.GetFloat("monthly_rate") != 450000 {
		t.Errorf("monthly_rate = %v, want 450000", updated.GetFloat("monthly_rate"))
	}

	col, _ := app.FindCollectionByNameOrId("equipment")
	all, _ := app.FindAllRecords(col)
	if len(all) != 2 {
		t.Errorf("expected 2 equipment records, got %d", len(all))
	}
}

func TestHandleRateImport_RejectsInvalidSheet(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	csv := "Equipment Name,Micro Rate (per hr)\n" +
		"Crane A,abc\n" +
		",100\n"
	req := multipartUpload(t, "rates.csv", csv)
	rec := httptest.NewRecorder()

	if err := HandleRateImport(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"Nothing was imported",
		"<td>2</td><td>micro_rate</td><td>must be a number</td>",
		"<td>3</td><td>name</td>",
	)

	col, _ := app.FindCollectionByNameOrId("equipment")
	all, _ := app.FindAllRecords(col)
	if len(all) != 0 {
		t.Errorf("expected no equipment imported, got %d", len(all))
	}
}

func TestHandleRateImport_UnsupportedFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := multipartUpload(t, "rates.pdf", "%PDF")
	rec := httptest.NewRecorder()

	if err := HandleRateImport(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
