package mapper_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"struct-mapper/mapper"
	"struct-mapper/options"
	"struct-mapper/primitive"
	"struct-mapper/rules"
)

type (
	Address struct {
		Street string
		City   string
	}
	AddressDto struct {
		Street string
		City   string
	}

	Person struct {
		Name    string
		Age     int
		Home    *Address
		Tags    []string
		Friends []*Person
		Manager *Person
	}
	PersonDto struct {
		Name    string
		Age     int
		Home    *AddressDto
		Tags    []string
		Friends []*PersonDto
		Manager *PersonDto
	}

	Shipment struct {
		From Address
		To   *Address
	}
	ShipmentDto struct {
		From AddressDto
		To   AddressDto
	}
)

func people(opts ...options.OptionEnum) *rules.Set {
	set := rules.NewSet("people", opts...)
	rules.Map[Address, AddressDto](set)
	rules.Map[Person, PersonDto](set)

	return set
}

func newMapper(t *testing.T, set *rules.Set, opts ...mapper.Option) *mapper.Mapper {
	t.Helper()

	m, err := mapper.New(set, opts...)
	require.NoError(t, err)

	return m
}

func TestMap_Graph(t *testing.T) {
	t.Parallel()

	m := newMapper(t, people())

	src := &Person{
		Name:    "Ada",
		Age:     36,
		Home:    &Address{Street: "12 St James's Square", City: "London"},
		Tags:    []string{"math", "engines"},
		Friends: []*Person{{Name: "Charles", Age: 45}, nil},
	}

	got, err := mapper.Map[*Person, *PersonDto](m, src, nil)
	require.NoError(t, err)

	want := &PersonDto{
		Name:    "Ada",
		Age:     36,
		Home:    &AddressDto{Street: "12 St James's Square", City: "London"},
		Tags:    []string{"math", "engines"},
		Friends: []*PersonDto{{Name: "Charles", Age: 45}, nil},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Map() mismatch (-want +got):\n%s", diff)
	}
}

func TestMap_RoundTrip(t *testing.T) {
	t.Parallel()

	set := people()
	rules.Map[AddressDto, Address](set)
	rules.Map[PersonDto, Person](set)

	m := newMapper(t, set)

	for i := range 50 {
		src := &Person{
			Name: strings.Repeat("x", i%7) + "name",
			Age:  i * 3,
			Home: &Address{Street: "street " + time.Duration(i).String(), City: "city"},
			Tags: []string{"t", strings.Repeat("y", i%3)},
		}

		dto, err := mapper.Map[*Person, *PersonDto](m, src, nil)
		require.NoError(t, err)

		back, err := mapper.Map[*PersonDto, *Person](m, dto, nil)
		require.NoError(t, err)

		assert.Equal(t, src.Name, back.Name)
		assert.Equal(t, src.Age, back.Age)
		assert.Equal(t, *src.Home, *back.Home)
		assert.Equal(t, src.Tags, back.Tags)
		assert.NotSame(t, src.Home, back.Home)
	}
}

func TestMap_ValueAndPointerForms(t *testing.T) {
	t.Parallel()

	set := rules.NewSet("shipments")
	rules.Map[Address, AddressDto](set)
	rules.Map[Shipment, ShipmentDto](set)

	m := newMapper(t, set)

	got, err := mapper.Map[Shipment, ShipmentDto](m, Shipment{
		From: Address{City: "Turin"},
		To:   &Address{City: "Lyon"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, ShipmentDto{From: AddressDto{City: "Turin"}, To: AddressDto{City: "Lyon"}}, got)

	got, err = mapper.Map[Shipment, ShipmentDto](m, Shipment{From: Address{City: "Turin"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, AddressDto{}, got.To, "nil source leaves the destination untouched")

	ptr, err := mapper.Map[*Shipment, *ShipmentDto](m, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, ptr)
}

func TestMap_PreserveReferences(t *testing.T) {
	t.Parallel()

	home := &Address{City: "London"}

	ada := &Person{Name: "Ada", Home: home}
	charles := &Person{Name: "Charles", Home: home, Manager: ada}
	ada.Manager = charles
	ada.Friends = []*Person{ada, charles}

	t.Run("cycles map to one instance", func(t *testing.T) {
		t.Parallel()

		m := newMapper(t, people(options.PreserveReferences))
		c := mapper.NewContext()

		got, err := mapper.Map[*Person, *PersonDto](m, ada, c)
		require.NoError(t, err)

		assert.Same(t, got, got.Manager.Manager)
		assert.Same(t, got, got.Friends[0])
		assert.Same(t, got.Manager, got.Friends[1])
		assert.Same(t, got.Home, got.Manager.Home)

		assert.Equal(t, 3, c.Maps(), "ada, charles and the shared address")
		assert.Equal(t, 4, c.References())
		assert.Zero(t, c.Depth())
	})

	t.Run("without the option shared sources are copied", func(t *testing.T) {
		t.Parallel()

		m := newMapper(t, people())

		got, err := mapper.Map[*Person, *PersonDto](m, &Person{Friends: []*Person{{Home: home}, {Home: home}}}, nil)
		require.NoError(t, err)
		assert.Equal(t, got.Friends[0].Home, got.Friends[1].Home)
		assert.NotSame(t, got.Friends[0].Home, got.Friends[1].Home)
	})

	t.Run("the context reuses instances across calls", func(t *testing.T) {
		t.Parallel()

		m := newMapper(t, people(options.PreserveReferences))
		c := mapper.NewContext()

		first, err := mapper.Map[*Address, *AddressDto](m, home, c)
		require.NoError(t, err)

		second, err := mapper.Map[*Address, *AddressDto](m, home, c)
		require.NoError(t, err)

		assert.Same(t, first, second)
	})
}

func TestMap_DepthLimit(t *testing.T) {
	t.Parallel()

	ada := &Person{Name: "Ada"}
	ada.Manager = ada

	m := newMapper(t, people(), mapper.WithDefaultMaxDepth(16))

	c := mapper.NewContext(mapper.WithMaxDepth(16))
	_, err := mapper.Map[*Person, *PersonDto](m, ada, c)
	require.ErrorIs(t, err, mapper.ErrDepthExceeded)
	assert.Zero(t, c.Depth(), "depth is released on faults")

	var me *mapper.MappingError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "Manager"+strings.Repeat(".Manager", 15), me.Path)

	_, err = mapper.Map[*Person, *PersonDto](m, ada, nil)
	require.ErrorIs(t, err, mapper.ErrDepthExceeded, "default max depth of the mapper")
}

type (
	Parent struct {
		Name  string
		Child *Child
	}
	Child struct {
		Name  string
		Grand *Grand
	}
	Grand struct{ Name string }

	ParentDto struct {
		Name  string
		Child *ChildDto
	}
	ChildDto struct {
		Name  string
		Grand *GrandDto
	}
	GrandDto struct{ Name string }
)

func TestMap_Depth(t *testing.T) {
	t.Parallel()

	var seen []int
	record := func(depth int) { seen = append(seen, depth) }

	set := rules.NewSet("family")
	rules.Map[Parent, ParentDto](set, rules.PreMap(func(_ *Parent, _ *ParentDto, ctx rules.Context) error {
		record(ctx.Depth())
		return nil
	}))
	rules.Map[Child, ChildDto](set, rules.PreMap(func(_ *Child, _ *ChildDto, ctx rules.Context) error {
		record(ctx.Depth())
		return nil
	}))
	rules.Map[Grand, GrandDto](set)

	m := newMapper(t, set)

	c := mapper.NewContext(mapper.WithMaxDepth(2))
	got, err := mapper.Map[Parent, ParentDto](m, Parent{Name: "p", Child: &Child{Name: "c"}}, c)
	require.NoError(t, err)
	assert.Equal(t, "c", got.Child.Name)
	assert.Equal(t, []int{1, 2}, seen)
	assert.Zero(t, c.Depth())

	_, err = mapper.Map[Parent, ParentDto](m, Parent{Child: &Child{Grand: &Grand{}}}, c)
	require.ErrorIs(t, err, mapper.ErrDepthExceeded)
	assert.Zero(t, c.Depth())

	var me *mapper.MappingError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "Child.Grand", me.Path)
	assert.Equal(t, "mapper_test.Grand->mapper_test.GrandDto", me.Pair.String())
}

func TestMap_HooksAndFactory(t *testing.T) {
	t.Parallel()

	var log []string

	set := rules.NewSet("hooks")
	rules.NewFactory(set, func(ctx rules.Context) *AddressDto {
		city, _ := ctx.Values().Load("city")
		return &AddressDto{City: city.(string)}
	})
	rules.Map[Address, AddressDto](set,
		rules.PreMapWithPriority(2, func(_ *Address, dst *AddressDto, _ rules.Context) error {
			log = append(log, "pre2:"+dst.City)
			return nil
		}),
		rules.PostMap(func(_ *Address, dst *AddressDto, _ rules.Context) error {
			log = append(log, "post:"+dst.Street)
			return nil
		}),
		rules.PreMapWithPriority(1, func(src *Address, _ *AddressDto, _ rules.Context) error {
			src.Street = strings.ToUpper(src.Street)
			log = append(log, "pre1")
			return nil
		}),
	)

	m := newMapper(t, set)

	src := &Address{Street: "via roma", City: "Turin"}
	c := mapper.NewContext(mapper.WithValues(map[string]any{"city": "factory"}))

	got, err := mapper.Map[*Address, *AddressDto](m, src, c)
	require.NoError(t, err)

	assert.Equal(t, []string{"pre1", "pre2:factory", "post:VIA ROMA"}, log)
	assert.Equal(t, &AddressDto{Street: "VIA ROMA", City: "Turin"}, got)
	assert.Equal(t, "VIA ROMA", src.Street, "pre-hooks see the live source")
}

var errBoom = errors.New("boom")

func TestMap_HookError(t *testing.T) {
	t.Parallel()

	set := people()
	rules.Map[Shipment, ShipmentDto](set, rules.PostMap(func(*Shipment, *ShipmentDto, rules.Context) error {
		return errBoom
	}))

	m := newMapper(t, set)

	c := mapper.NewContext()
	_, err := mapper.Map[Shipment, ShipmentDto](m, Shipment{}, c)
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "post-hook")
	assert.Zero(t, c.Depth())
}

type (
	Contact struct {
		First, Last string
		Phone       string
		Email       string
	}
	ContactDto struct {
		Display  string
		Phone    string
		Email    string
		Initials string
	}
)

var errNoName = errors.New("contact has no name")

func TestMap_CustomFunctions(t *testing.T) {
	t.Parallel()

	set := rules.NewSet("contacts")
	rules.NewFactory(set, func(rules.Context) *ContactDto {
		return &ContactDto{Phone: "n/a"}
	})
	rules.Map[Contact, ContactDto](set,
		rules.ForMember("Display", func(c *Contact, ctx rules.Context) string {
			sep, _ := ctx.Values().Load("sep")
			return c.Last + sep.(string) + c.First
		}),
		rules.ForMember("Phone", func(c Contact) (string, bool) {
			return "+" + c.Phone, c.Phone != ""
		}),
		rules.ForMember("Initials", func(c *Contact) (string, error) {
			if c.First == "" || c.Last == "" {
				return "", errNoName
			}
			return c.First[:1] + c.Last[:1], nil
		}),
	)

	m := newMapper(t, set)
	c := mapper.NewContext(mapper.WithValues(map[string]any{"sep": ", "}))

	got, err := mapper.Map[Contact, ContactDto](m, Contact{First: "Grace", Last: "Hopper", Email: "grace@navy.mil"}, c)
	require.NoError(t, err)
	assert.Equal(t, ContactDto{Display: "Hopper, Grace", Phone: "n/a", Email: "grace@navy.mil", Initials: "GH"}, got)

	got, err = mapper.Map[Contact, ContactDto](m, Contact{First: "Grace", Last: "Hopper", Phone: "1555"}, c)
	require.NoError(t, err)
	assert.Equal(t, "+1555", got.Phone)

	_, err = mapper.Map[Contact, ContactDto](m, Contact{Last: "Hopper"}, c)
	require.ErrorIs(t, err, errNoName)

	var me *mapper.MappingError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "Initials", me.Field)
}

type (
	Color  int
	Colour string
	Level  int
	Rank   int

	Paint struct {
		Color Color
		Shade *Color
	}
	PaintDto struct {
		Color Colour
		Shade *Colour
	}

	Badge struct{ Level Level }
	BadgeDto struct{ Level Rank }
)

const (
	Red Color = iota
	Green
	Blue
)

func palette(opts ...options.OptionEnum) *rules.Set {
	set := rules.NewSet("palette", opts...)
	rules.Enum(set, map[string]Color{"Red": Red, "Green": Green, "Blue": Blue})
	rules.Enum(set, map[string]Colour{"Red": "r", "Green": "g"})
	rules.Enum(set, map[string]Level{"Low": 0, "High": 1})
	rules.Enum(set, map[string]Rank{"Bottom": 0, "Top": 1, "Mid": 5})
	rules.Map[Paint, PaintDto](set)
	rules.Map[Badge, BadgeDto](set)

	return set
}

func TestMap_Enums(t *testing.T) {
	t.Parallel()

	green := Green

	t.Run("by name", func(t *testing.T) {
		t.Parallel()

		m := newMapper(t, palette())

		got, err := mapper.Map[Paint, PaintDto](m, Paint{Color: Red, Shade: &green}, nil)
		require.NoError(t, err)
		assert.Equal(t, Colour("r"), got.Color)
		require.NotNil(t, got.Shade)
		assert.Equal(t, Colour("g"), *got.Shade)

		got, err = mapper.Map[Paint, PaintDto](m, Paint{Color: Blue}, nil)
		require.NoError(t, err)
		assert.Equal(t, Colour(""), got.Color, "unmatched members become the zero value")
		assert.Nil(t, got.Shade)

		badge, err := mapper.Map[Badge, BadgeDto](m, Badge{Level: 1}, nil)
		require.NoError(t, err)
		assert.Equal(t, Rank(0), badge.Level, "High has no counterpart")
	})

	t.Run("strict", func(t *testing.T) {
		t.Parallel()

		m := newMapper(t, palette(options.ThrowOnUnmappedEnum))

		_, err := mapper.Map[Paint, PaintDto](m, Paint{Color: Blue}, nil)
		require.ErrorIs(t, err, mapper.ErrEnumMissingField)
		assert.Contains(t, err.Error(), "as `mapper_test.Colour` does not contain field `Blue`")

		var me *mapper.MappingError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, "Color", me.Field)
	})

	t.Run("by value", func(t *testing.T) {
		t.Parallel()

		m := newMapper(t, palette(options.MapEnumsByValue))

		badge, err := mapper.Map[Badge, BadgeDto](m, Badge{Level: 1}, nil)
		require.NoError(t, err)
		assert.Equal(t, Rank(1), badge.Level)

		badge, err = mapper.Map[Badge, BadgeDto](m, Badge{Level: 7}, nil)
		require.NoError(t, err)
		assert.Equal(t, Rank(7), badge.Level, "values are not validated")
	})
}

type (
	Invoice struct {
		Amount float64
		Count  *int
		Due    string
		Paid   string
	}
	InvoiceDto struct {
		Amount string
		Count  string
		Due    time.Time
		Paid   bool
	}
)

func TestMap_ConvertibleCast(t *testing.T) {
	t.Parallel()

	dateOnly := primitive.Invariant.Derive(primitive.Format{Name: "date", TimeLayout: time.DateOnly})

	invoices := func(opts options.OptionEnum) *mapper.Mapper {
		set := rules.NewSet("invoices")
		rules.Map[Invoice, InvoiceDto](set,
			rules.WithOptions(opts),
			rules.FormatProviderFor[string, time.Time](dateOnly))

		return newMapper(t, set)
	}

	count := 3
	m := invoices(options.AllowConvertible)

	got, err := mapper.Map[Invoice, InvoiceDto](m, Invoice{Amount: 12.5, Count: &count, Due: "2024-02-29", Paid: "yes"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "12.5", got.Amount)
	assert.Equal(t, "3", got.Count)
	assert.True(t, got.Due.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)), got.Due)
	assert.True(t, got.Paid)

	_, err = mapper.Map[Invoice, InvoiceDto](m, Invoice{Due: "2024-02-29", Paid: "no"}, nil)
	require.ErrorIs(t, err, mapper.ErrNilSource)
	require.ErrorIs(t, err, mapper.ErrConversion)

	_, err = mapper.Map[Invoice, InvoiceDto](m, Invoice{Count: &count, Due: "29/02/2024", Paid: "no"}, nil)
	require.ErrorIs(t, err, mapper.ErrConversion)

	m = invoices(options.AllowConvertible | options.SuppressNullWarnings)

	got, err = mapper.Map[Invoice, InvoiceDto](m, Invoice{Due: "2024-02-29", Paid: "off"}, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Count)
	assert.False(t, got.Paid)
}

func TestMap_NullDefault(t *testing.T) {
	t.Parallel()

	type source struct{ Name string }
	type target struct {
		Name  string
		Tags  []string          `mapper:"required"`
		Attrs map[string]string `mapper:"required"`
		Home  *AddressDto       `mapper:"required"`
	}

	set := rules.NewSet("defaults", options.SuppressNullWarnings)
	rules.Map[source, target](set)

	m := newMapper(t, set)

	got, err := mapper.Map[source, target](m, source{Name: "x"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
	assert.NotNil(t, got.Attrs)
	assert.Equal(t, &AddressDto{}, got.Home)
}

func TestNew_ConfigError(t *testing.T) {
	t.Parallel()

	set := rules.NewSet("broken")
	rules.Map[Address, AddressDto](set, rules.Ignore("Zip"))
	rules.Map[Address, AddressDto](set)

	m, err := mapper.New(set)
	assert.Nil(t, m)
	require.ErrorIs(t, err, mapper.ErrConfiguration)

	var ce *mapper.ConfigError
	require.ErrorAs(t, err, &ce)

	var codes []string
	for _, d := range ce.Diagnostics.Errors {
		codes = append(codes, d.Code)
		assert.Equal(t, "mapper_test.Address->mapper_test.AddressDto", d.TypePair)
	}
	assert.Equal(t, []string{"duplicate_pair", "invalid_member"}, codes)
}

func TestMap_UnmappedPair(t *testing.T) {
	t.Parallel()

	m := newMapper(t, people())

	_, err := mapper.Map[*Person, *AddressDto](m, &Person{}, nil)
	require.ErrorIs(t, err, mapper.ErrUnmappedPair)

	_, err = m.MapAny(Shipment{}, reflect.TypeFor[ShipmentDto](), nil)
	require.ErrorIs(t, err, mapper.ErrUnmappedPair)

	// the rule exists but yields *PersonDto, not **PersonDto
	_, err = mapper.Map[*Person, **PersonDto](m, &Person{Name: "Ada"}, nil)
	require.ErrorIs(t, err, mapper.ErrUnmappedPair)

	var me *mapper.MappingError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "mapper_test.Person->mapper_test.PersonDto", me.Pair.String())
}

func TestMapper_Plans(t *testing.T) {
	t.Parallel()

	m := newMapper(t, people())

	plans := m.Plans()
	require.Len(t, plans, 2)
	assert.Equal(t, "mapper_test.Address->mapper_test.AddressDto", plans[0].Pair)
	assert.Equal(t, "mapper_test.Person->mapper_test.PersonDto", plans[1].Pair)
	assert.Empty(t, m.Diagnostics().Warnings)
}
