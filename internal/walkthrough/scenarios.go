package walkthrough

import (
	"net/http"
	"strings"
)

const longDescription = "This is an amazing item that has a long description"

// DefaultScenarios returns the full route walkthrough: every documented
// response plus the validation rejections.
func DefaultScenarios() []Scenario {
	const featured = `"items":[{"item_id":"Foo"},{"item_id":"Bar"}]`

	return []Scenario{
		// Basics
		get("root greeting", "/", `{"message":"Hello World"}`),
		get("health", "/healthz", `{"status":"ok","samples":3}`),
		{Name: "unknown path", Method: http.MethodGet, Path: "/nope", WantStatus: http.StatusNotFound,
			WantBody: `{"code":"not_found","message":"Not Found"}`},
		{Name: "wrong method", Method: http.MethodDelete, Path: "/", WantStatus: http.StatusMethodNotAllowed,
			WantBody: `{"code":"method_not_allowed","message":"Method Not Allowed"}`},

		// Path parameters
		get("item by id", "/items/5", `{"item_id":5}`),
		get("item with q", "/items/5?q=x", `{"item_id":5,"q":"x"}`),
		get("item with alias", "/items/5?item-query=y", `{"item_id":5,"q":"y"}`),
		reject("item id zero", "/items/0", "greater_than"),
		reject("item id too large", "/items/1001", "less_than_equal"),
		reject("item id not a number", "/items/abc", "int_parsing"),
		get("current user", "/users/me", `{"user_id":"the current user"}`),
		get("user by id", "/users/42", `{"user_id":"42"}`),
		get("user item", "/users/3/items/abc?q=z",
			`{"item_id":"abc","owner_id":3,"q":"z","description":"`+longDescription+`"}`),
		get("user item short", "/users/3/items/abc?short=yes", `{"item_id":"abc","owner_id":3}`),
		reject("user item bad inputs", "/users/x/items/a?short=maybe", "int_parsing", "bool_parsing"),
		get("model alexnet", "/models/alexnet", `{"model_name":"alexnet","message":"Deep Learning FTW!"}`),
		get("model lenet", "/models/lenet", `{"model_name":"lenet","message":"LeCNN all the images"}`),
		get("model resnet", "/models/resnet", `{"model_name":"resnet","message":"Have some residuals"}`),
		reject("model unknown", "/models/unknown", "enum"),
		get("file path", "/files/home/johndoe/myfile.txt", `{"file_path":"home/johndoe/myfile.txt"}`),
		get("absolute file path", "/files//home/johndoe/myfile.txt", `{"file_path":"/home/johndoe/myfile.txt"}`),

		// Query parameters
		get("samples first two", "/query/?skip=0&limit=2", `[{"item_name":"Foo"},{"item_name":"Bar"}]`),
		get("samples default window", "/query/", `[{"item_name":"Foo"},{"item_name":"Bar"},{"item_name":"Baz"}]`),
		get("samples past end", "/query/?skip=9", `[]`),
		get("samples from the end", "/query/?skip=-1", `[{"item_name":"Baz"}]`),
		get("samples inverted window", "/query/?skip=1&limit=-1", `[]`),
		reject("samples non-numeric skip", "/query/?skip=one", "int_parsing"),
		get("optional q absent", "/query/optional/foo", `{"item_id":"foo"}`),
		get("optional q present", "/query/optional/foo?q=bar", `{"item_id":"foo","q":"bar"}`),
		get("flags long", "/query/foo", `{"item_id":"foo","description":"`+longDescription+`"}`),
		get("flags short", "/query/foo?short=1", `{"item_id":"foo"}`),
		get("needy present", "/query/items/foo?needy=n", `{"item_id":"foo","needy":"n","skip":0,"limit":null}`),
		reject("needy missing", "/query/items/foo", "missing"),

		// Request bodies
		post("create with tax", "/request/items/", `{"name":"a","price":10,"tax":2}`,
			`{"name":"a","description":null,"price":10,"tax":2,"price_with_tax":12}`),
		post("create without tax", "/request/items/", `{"name":"a","price":10}`,
			`{"name":"a","description":null,"price":10,"tax":null}`),
		{Name: "create missing price", Method: http.MethodPost, Path: "/request/items/", Body: `{"name":"a"}`,
			WantStatus: http.StatusUnprocessableEntity, WantErrors: []string{"missing"}},
		{Name: "create malformed", Method: http.MethodPost, Path: "/request/items/", Body: `{"name":`,
			WantStatus: http.StatusUnprocessableEntity, WantErrors: []string{"json_invalid"}},
		{Name: "update item", Method: http.MethodPut, Path: "/request/items/7?q=z", Body: `{"name":"a","price":10}`,
			WantStatus: http.StatusOK,
			WantBody:   `{"item_id":7,"name":"a","description":null,"price":10,"tax":null,"q":"z"}`},

		// Query validation
		get("max length absent", "/params/items/", `{`+featured+`}`),
		get("max length ok", "/params/items/?q=abc", `{`+featured+`,"q":"abc"}`),
		reject("max length exceeded", "/params/items/?q="+strings.Repeat("x", 51), "string_too_long"),
		get("default q", "/params/default/", `{`+featured+`,"q":"fixedquery"}`),
		reject("default q too short", "/params/default/?q=ab", "string_too_short"),
		get("required q", "/params/required/?q=abc", `{`+featured+`,"q":"abc"}`),
		reject("required q missing", "/params/required/", "missing"),
		get("nullable q", "/params/none/?q=abcd", `{`+featured+`,"q":"abcd"}`),
		get("multiple q", "/params/multiple/?q=foo&q=bar", `{"q":["foo","bar"]}`),
		get("multiple q absent", "/params/multiple/", `{"q":null}`),
		get("multiple q defaults", "/params/multiple/defaults/", `{"q":["foo","bar"]}`),
	}
}

func get(name, path, want string) Scenario {
	return Scenario{Name: name, Method: http.MethodGet, Path: path, WantStatus: http.StatusOK, WantBody: want}
}

func post(name, path, body, want string) Scenario {
	return Scenario{Name: name, Method: http.MethodPost, Path: path, Body: body, WantStatus: http.StatusOK, WantBody: want}
}

func reject(name, path string, types ...string) Scenario {
	return Scenario{Name: name, Method: http.MethodGet, Path: path, WantStatus: http.StatusUnprocessableEntity, WantErrors: types}
}
