package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/reqbind/internal/adapters/http/api"
	"github.com/okian/reqbind/internal/adapters/repository"
	service "github.com/okian/reqbind/internal/app"
	"github.com/okian/reqbind/internal/domain/model"
)

type failingDeps struct {
	*service.Service
}

func (failingDeps) Samples(context.Context, int, int) ([]model.SampleRecord, error) {
	return nil, errors.New("store unavailable")
}

type errorBody struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Detail  []api.FieldError `json:"detail"`
}

func newRouter(opts ...api.Option) http.Handler {
	return api.NewServer(service.New(), opts...).Router(context.Background())
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func bodyOf(w *httptest.ResponseRecorder) string {
	return strings.TrimSpace(w.Body.String())
}

func decodeError(w *httptest.ResponseRecorder) errorBody {
	var eb errorBody
	So(json.Unmarshal(w.Body.Bytes(), &eb), ShouldBeNil)
	return eb
}

func TestServer_Root(t *testing.T) {
	Convey("Given the API router", t, func() {
		h := newRouter()

		Convey("GET / greets", func() {
			w := do(h, http.MethodGet, "/", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
			So(bodyOf(w), ShouldEqual, `{"message":"Hello World"}`)
		})

		Convey("GET /healthz reports ok and the sample count", func() {
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(bodyOf(w), ShouldEqual, `{"status":"ok","samples":3}`)

			store := repository.NewMemoryStore(repository.WithRecords([]model.SampleRecord{{ItemName: "Only"}}))
			one := api.NewServer(service.New(service.WithStore(store))).Router(context.Background())
			So(bodyOf(do(one, http.MethodGet, "/healthz", "")), ShouldEqual, `{"status":"ok","samples":1}`)
		})

		Convey("GET /metrics exposes request counters", func() {
			do(h, http.MethodGet, "/", "")
			w := do(h, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "reqbind_api_http_requests_total")
		})

		Convey("Unknown paths answer a JSON 404", func() {
			w := do(h, http.MethodGet, "/nope", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(bodyOf(w), ShouldEqual, `{"code":"not_found","message":"Not Found"}`)
		})

		Convey("Wrong methods answer a JSON 405", func() {
			w := do(h, http.MethodPost, "/", `{}`)
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(bodyOf(w), ShouldEqual, `{"code":"method_not_allowed","message":"Method Not Allowed"}`)
		})
	})
}

func TestServer_PathParams(t *testing.T) {
	Convey("Given the API router", t, func() {
		h := newRouter()

		Convey("GET /items/5 returns the id as a number", func() {
			w := do(h, http.MethodGet, "/items/5", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(bodyOf(w), ShouldEqual, `{"item_id":5}`)
		})

		Convey("GET /items/5 echoes q or its item-query alias", func() {
			So(bodyOf(do(h, http.MethodGet, "/items/5?q=x", "")), ShouldEqual, `{"item_id":5,"q":"x"}`)
			So(bodyOf(do(h, http.MethodGet, "/items/5?item-query=y", "")), ShouldEqual, `{"item_id":5,"q":"y"}`)
			So(bodyOf(do(h, http.MethodGet, "/items/5?q=", "")), ShouldEqual, `{"item_id":5}`)
		})

		Convey("GET /items rejects ids outside (0, 1000]", func() {
			w := do(h, http.MethodGet, "/items/0", "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			eb := decodeError(w)
			So(eb.Code, ShouldEqual, "validation_error")
			So(eb.Message, ShouldEqual, "request validation failed")
			So(eb.Detail, ShouldHaveLength, 1)
			So(eb.Detail[0].Loc, ShouldResemble, []string{"path", "item_id"})
			So(eb.Detail[0].Type, ShouldEqual, "greater_than")

			w = do(h, http.MethodGet, "/items/1001", "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decodeError(w).Detail[0].Type, ShouldEqual, "less_than_equal")

			So(bodyOf(do(h, http.MethodGet, "/items/1000", "")), ShouldEqual, `{"item_id":1000}`)
		})

		Convey("GET /items rejects non-integer ids once", func() {
			w := do(h, http.MethodGet, "/items/abc", "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			eb := decodeError(w)
			So(eb.Detail, ShouldHaveLength, 1)
			So(eb.Detail[0].Type, ShouldEqual, "int_parsing")
		})

		Convey("GET /users/me never reaches the parameter route", func() {
			So(bodyOf(do(h, http.MethodGet, "/users/me", "")), ShouldEqual, `{"user_id":"the current user"}`)
			So(bodyOf(do(h, http.MethodGet, "/users/42", "")), ShouldEqual, `{"user_id":"42"}`)
		})

		Convey("GET /users/{user_id}/items/{item_id} binds both segments", func() {
			w := do(h, http.MethodGet, "/users/3/items/abc?q=z", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(bodyOf(w), ShouldEqual,
				`{"item_id":"abc","owner_id":3,"q":"z","description":"This is an amazing item that has a long description"}`)

			So(bodyOf(do(h, http.MethodGet, "/users/3/items/abc?short=yes", "")), ShouldEqual, `{"item_id":"abc","owner_id":3}`)
		})

		Convey("GET /users/{user_id}/items/{item_id} reports every bad input", func() {
			w := do(h, http.MethodGet, "/users/x/items/a?short=maybe", "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			eb := decodeError(w)
			So(eb.Detail, ShouldHaveLength, 2)
			So(eb.Detail[0].Loc, ShouldResemble, []string{"path", "user_id"})
			So(eb.Detail[1].Loc, ShouldResemble, []string{"query", "short"})
			So(eb.Detail[1].Type, ShouldEqual, "bool_parsing")
		})

		Convey("GET /models returns a distinct message per member", func() {
			So(bodyOf(do(h, http.MethodGet, "/models/alexnet", "")), ShouldEqual, `{"model_name":"alexnet","message":"Deep Learning FTW!"}`)
			So(bodyOf(do(h, http.MethodGet, "/models/lenet", "")), ShouldEqual, `{"model_name":"lenet","message":"LeCNN all the images"}`)
			So(bodyOf(do(h, http.MethodGet, "/models/resnet", "")), ShouldEqual, `{"model_name":"resnet","message":"Have some residuals"}`)
		})

		Convey("GET /models rejects names outside the enumeration", func() {
			w := do(h, http.MethodGet, "/models/unknown", "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			eb := decodeError(w)
			So(eb.Detail[0].Type, ShouldEqual, "enum")
			So(eb.Detail[0].Msg, ShouldEqual, "Input should be 'alexnet', 'resnet' or 'lenet'")
		})

		Convey("GET /files captures the rest of the path", func() {
			So(bodyOf(do(h, http.MethodGet, "/files/home/johndoe/myfile.txt", "")), ShouldEqual, `{"file_path":"home/johndoe/myfile.txt"}`)
			So(bodyOf(do(h, http.MethodGet, "/files//home/johndoe/myfile.txt", "")), ShouldEqual, `{"file_path":"/home/johndoe/myfile.txt"}`)
		})
	})
}

func TestServer_QueryParams(t *testing.T) {
	Convey("Given the API router", t, func() {
		h := newRouter()

		Convey("GET /query/ slices the sample list", func() {
			So(bodyOf(do(h, http.MethodGet, "/query/?skip=0&limit=2", "")), ShouldEqual, `[{"item_name":"Foo"},{"item_name":"Bar"}]`)
			So(bodyOf(do(h, http.MethodGet, "/query/", "")), ShouldEqual, `[{"item_name":"Foo"},{"item_name":"Bar"},{"item_name":"Baz"}]`)
			So(bodyOf(do(h, http.MethodGet, "/query/?skip=1", "")), ShouldEqual, `[{"item_name":"Bar"},{"item_name":"Baz"}]`)
			So(bodyOf(do(h, http.MethodGet, "/query/?skip=9", "")), ShouldEqual, `[]`)
		})

		Convey("GET /query/ indexes negative bounds from the end", func() {
			So(bodyOf(do(h, http.MethodGet, "/query/?skip=-1", "")), ShouldEqual, `[{"item_name":"Baz"}]`)
			So(bodyOf(do(h, http.MethodGet, "/query/?skip=0&limit=-1", "")), ShouldEqual, `[{"item_name":"Foo"},{"item_name":"Bar"}]`)

			w := do(h, http.MethodGet, "/query/?skip=1&limit=-1", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(bodyOf(w), ShouldEqual, `[]`)
		})

		Convey("GET /query/ rejects non-numeric bounds", func() {
			w := do(h, http.MethodGet, "/query/?skip=one&limit=ten", "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			eb := decodeError(w)
			So(eb.Detail, ShouldHaveLength, 2)
			So(eb.Detail[0].Loc, ShouldResemble, []string{"query", "skip"})
			So(eb.Detail[0].Type, ShouldEqual, "int_parsing")
			So(eb.Detail[1].Loc, ShouldResemble, []string{"query", "limit"})
			So(eb.Detail[1].Type, ShouldEqual, "int_parsing")
		})

		Convey("GET /query/ answers 500 when the store fails", func() {
			fh := api.NewServer(failingDeps{service.New()}).Router(context.Background())
			w := do(fh, http.MethodGet, "/query/", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeError(w).Code, ShouldEqual, "internal_error")
		})

		Convey("GET /query/optional/{item_id} includes q only when given", func() {
			So(bodyOf(do(h, http.MethodGet, "/query/optional/foo", "")), ShouldEqual, `{"item_id":"foo"}`)
			So(bodyOf(do(h, http.MethodGet, "/query/optional/foo?q=bar", "")), ShouldEqual, `{"item_id":"foo","q":"bar"}`)
		})

		Convey("GET /query/{item_id} honours short", func() {
			So(bodyOf(do(h, http.MethodGet, "/query/foo", "")), ShouldEqual,
				`{"item_id":"foo","description":"This is an amazing item that has a long description"}`)
			for _, v := range []string{"1", "True", "on", "yes", "t", "Y"} {
				So(bodyOf(do(h, http.MethodGet, "/query/foo?short="+v, "")), ShouldEqual, `{"item_id":"foo"}`)
			}
			So(bodyOf(do(h, http.MethodGet, "/query/foo?short=off&q=a", "")), ShouldEqual,
				`{"item_id":"foo","q":"a","description":"This is an amazing item that has a long description"}`)
		})

		Convey("GET /query/items/{item_id} requires needy", func() {
			So(bodyOf(do(h, http.MethodGet, "/query/items/foo?needy=n", "")), ShouldEqual,
				`{"item_id":"foo","needy":"n","skip":0,"limit":null}`)
			So(bodyOf(do(h, http.MethodGet, "/query/items/foo?needy=n&skip=2&limit=4", "")), ShouldEqual,
				`{"item_id":"foo","needy":"n","skip":2,"limit":4}`)

			w := do(h, http.MethodGet, "/query/items/foo", "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			eb := decodeError(w)
			So(eb.Detail, ShouldHaveLength, 1)
			So(eb.Detail[0].Loc, ShouldResemble, []string{"query", "needy"})
			So(eb.Detail[0].Type, ShouldEqual, "missing")
			So(eb.Detail[0].Msg, ShouldEqual, "Field required")
		})

		Convey("Repeated scalar keys keep the last value", func() {
			So(bodyOf(do(h, http.MethodGet, "/query/optional/foo?q=a&q=b", "")), ShouldEqual, `{"item_id":"foo","q":"b"}`)
		})
	})
}

func TestServer_RequestBodies(t *testing.T) {
	Convey("Given the API router", t, func() {
		h := newRouter()

		Convey("POST /request/items/ adds price_with_tax", func() {
			w := do(h, http.MethodPost, "/request/items/", `{"name":"a","price":10,"tax":2}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(bodyOf(w), ShouldEqual, `{"name":"a","description":null,"price":10,"tax":2,"price_with_tax":12}`)
		})

		Convey("POST /request/items/ omits price_with_tax without tax", func() {
			w := do(h, http.MethodPost, "/request/items/", `{"name":"a","description":"d","price":1.5}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(bodyOf(w), ShouldEqual, `{"name":"a","description":"d","price":1.5,"tax":null}`)
		})

		Convey("POST /request/items/ adds decimal totals exactly", func() {
			w := do(h, http.MethodPost, "/request/items/", `{"name":"a","price":0.1,"tax":0.2}`)
			So(bodyOf(w), ShouldContainSubstring, `"price_with_tax":0.3`)
		})

		Convey("POST /request/items/ reports missing fields", func() {
			w := do(h, http.MethodPost, "/request/items/", `{"description":"d"}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			eb := decodeError(w)
			So(eb.Detail, ShouldHaveLength, 2)
			So(eb.Detail[0].Loc, ShouldResemble, []string{"body", "name"})
			So(eb.Detail[1].Loc, ShouldResemble, []string{"body", "price"})
			So(eb.Detail[1].Type, ShouldEqual, "missing")
		})

		Convey("POST /request/items/ reports wrong JSON types once", func() {
			w := do(h, http.MethodPost, "/request/items/", `{"name":"a","price":"ten"}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			eb := decodeError(w)
			So(eb.Detail, ShouldHaveLength, 1)
			So(eb.Detail[0].Loc, ShouldResemble, []string{"body", "price"})
			So(eb.Detail[0].Type, ShouldEqual, "type_error")
		})

		Convey("POST /request/items/ rejects malformed and empty bodies", func() {
			w := do(h, http.MethodPost, "/request/items/", `{"name":`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			eb := decodeError(w)
			So(eb.Detail, ShouldHaveLength, 1)
			So(eb.Detail[0].Loc, ShouldResemble, []string{"body"})
			So(eb.Detail[0].Type, ShouldEqual, "json_invalid")

			w = do(h, http.MethodPost, "/request/items/", "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			eb = decodeError(w)
			So(eb.Detail, ShouldHaveLength, 1)
			So(eb.Detail[0].Type, ShouldEqual, "missing")
		})

		Convey("POST /request/items/ rejects data after the JSON object", func() {
			for _, body := range []string{`{"name":"a","price":10} garbage`, `{"name":"a","price":10}{}`} {
				w := do(h, http.MethodPost, "/request/items/", body)
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				eb := decodeError(w)
				So(eb.Detail, ShouldHaveLength, 1)
				So(eb.Detail[0].Loc, ShouldResemble, []string{"body"})
				So(eb.Detail[0].Type, ShouldEqual, "json_invalid")
			}

			w := do(h, http.MethodPost, "/request/items/", "{\"name\":\"a\",\"price\":10}\n\t ")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("POST /request/items/ accepts numbers sent as strings", func() {
			w := do(h, http.MethodPost, "/request/items/", `{"name":"a","price":"10","tax":" 2.5 "}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(bodyOf(w), ShouldEqual, `{"name":"a","description":null,"price":10,"tax":2.5,"price_with_tax":12.5}`)
		})

		Convey("POST /request/items/ reports every bad number", func() {
			w := do(h, http.MethodPost, "/request/items/", `{"price":true,"tax":"NaN","name":"a"}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			eb := decodeError(w)
			So(eb.Detail, ShouldHaveLength, 2)
			So(eb.Detail[0].Loc, ShouldResemble, []string{"body", "price"})
			So(eb.Detail[0].Type, ShouldEqual, "type_error")
			So(eb.Detail[0].Msg, ShouldEqual, "Input should be a valid number")
			So(eb.Detail[1].Loc, ShouldResemble, []string{"body", "tax"})
			So(eb.Detail[1].Type, ShouldEqual, "type_error")
		})

		Convey("POST /request/items/ refuses oversized bodies", func() {
			small := newRouter(api.WithMaxBodyBytes(16))
			w := do(small, http.MethodPost, "/request/items/", `{"name":"a long enough name","price":10}`)
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			So(decodeError(w).Code, ShouldEqual, "payload_too_large")
		})

		Convey("PUT /request/items/{item_id} merges id, item and q", func() {
			w := do(h, http.MethodPut, "/request/items/7?q=z", `{"name":"a","price":10}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(bodyOf(w), ShouldEqual, `{"item_id":7,"name":"a","description":null,"price":10,"tax":null,"q":"z"}`)
		})

		Convey("PUT /request/items/{item_id} reports path and body errors together", func() {
			w := do(h, http.MethodPut, "/request/items/x", `{"name":"a"}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			eb := decodeError(w)
			So(eb.Detail, ShouldHaveLength, 2)
			So(eb.Detail[0].Loc, ShouldResemble, []string{"path", "item_id"})
			So(eb.Detail[1].Loc, ShouldResemble, []string{"body", "price"})
		})
	})
}

func TestServer_QueryValidation(t *testing.T) {
	Convey("Given the API router", t, func() {
		h := newRouter()
		const items = `{"items":[{"item_id":"Foo"},{"item_id":"Bar"}]`

		Convey("GET /params/items/ caps q at 50 characters", func() {
			So(bodyOf(do(h, http.MethodGet, "/params/items/", "")), ShouldEqual, items+`}`)
			So(bodyOf(do(h, http.MethodGet, "/params/items/?q=abc", "")), ShouldEqual, items+`,"q":"abc"}`)

			w := do(h, http.MethodGet, "/params/items/?q="+strings.Repeat("x", 51), "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			eb := decodeError(w)
			So(eb.Detail[0].Type, ShouldEqual, "string_too_long")
			So(eb.Detail[0].Msg, ShouldEqual, "String should have at most 50 characters")
		})

		Convey("GET /params/default/ falls back to fixedquery", func() {
			So(bodyOf(do(h, http.MethodGet, "/params/default/", "")), ShouldEqual, items+`,"q":"fixedquery"}`)
			w := do(h, http.MethodGet, "/params/default/?q=ab", "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decodeError(w).Detail[0].Type, ShouldEqual, "string_too_short")
		})

		Convey("GET /params/required/ needs q of at least 3 characters", func() {
			So(bodyOf(do(h, http.MethodGet, "/params/required/?q=abc", "")), ShouldEqual, items+`,"q":"abc"}`)

			w := do(h, http.MethodGet, "/params/required/", "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			eb := decodeError(w)
			So(eb.Detail, ShouldHaveLength, 1)
			So(eb.Detail[0].Type, ShouldEqual, "missing")

			w = do(h, http.MethodGet, "/params/required/?q=ab", "")
			So(decodeError(w).Detail[0].Msg, ShouldEqual, "String should have at least 3 characters")
		})

		Convey("GET /params/none/ behaves as required", func() {
			So(bodyOf(do(h, http.MethodGet, "/params/none/?q=abcd", "")), ShouldEqual, items+`,"q":"abcd"}`)
			So(do(h, http.MethodGet, "/params/none/", "").Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("GET /params/multiple/ keeps every q in order", func() {
			So(bodyOf(do(h, http.MethodGet, "/params/multiple/?q=foo&q=bar", "")), ShouldEqual, `{"q":["foo","bar"]}`)
			So(bodyOf(do(h, http.MethodGet, "/params/multiple/", "")), ShouldEqual, `{"q":null}`)
		})

		Convey("GET /params/multiple/defaults/ defaults to foo and bar", func() {
			So(bodyOf(do(h, http.MethodGet, "/params/multiple/defaults/", "")), ShouldEqual, `{"q":["foo","bar"]}`)
			So(bodyOf(do(h, http.MethodGet, "/params/multiple/defaults/?q=baz", "")), ShouldEqual, `{"q":["baz"]}`)
		})
	})
}
