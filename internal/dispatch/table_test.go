package dispatch

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"struct-mapper/rules"
)

type (
	Animal interface{ Sound() string }
	Canine interface {
		Animal
		Howl() bool
	}

	Dog  struct{ Name string }
	Cat  struct{ Lives int }
	Wolf struct {
		Dog
		Pack int
	}
	Fox   struct{ Dog }
	Plant struct{}

	AnimalDto interface{ Kind() string }
	CanineDto interface {
		AnimalDto
		Wild() bool
	}

	DogDto   struct{ Name string }
	CatDto   struct{ Lives int }
	WolfDto  struct{ Pack int }
	FoxDto   struct{}
	PlantDto struct{}
)

func (Dog) Sound() string   { return "woof" }
func (Cat) Sound() string   { return "meow" }
func (Wolf) Howl() bool     { return true }
func (*Fox) Howl() bool     { return false }
func (Plant) Sound() string { return "" }

func (*DogDto) Kind() string  { return "dog" }
func (*CatDto) Kind() string  { return "cat" }
func (*WolfDto) Kind() string { return "wolf" }
func (*WolfDto) Wild() bool   { return true }
func (*FoxDto) Kind() string  { return "fox" }
func (*FoxDto) Wild() bool    { return true }

func zoo() (*rules.Set, *rules.Rule) {
	wolves := rules.NewSet("wolves")
	rules.Map[Wolf, WolfDto](wolves)

	set := rules.NewSet("zoo")
	animals := rules.Map[Animal, AnimalDto](set)
	rules.Map[Dog, DogDto](set)
	rules.Map[Cat, CatDto](set)
	rules.UseMap[Wolf, WolfDto](set, wolves)
	rules.Map[Canine, CanineDto](set)
	rules.Map[Fox, FoxDto](set)
	rules.Map[Plant, PlantDto](set) // PlantDto is not an AnimalDto

	return set, animals
}

func TestBuild(t *testing.T) {
	_, animals := zoo()

	table := Build(animals)

	sources := make([]reflect.Type, len(table.Candidates))
	for i, c := range table.Candidates {
		sources[i] = c.Source
	}

	assert.Equal(t, []reflect.Type{
		reflect.TypeFor[Dog](),
		reflect.TypeFor[Cat](),
		reflect.TypeFor[Wolf](),
		reflect.TypeFor[Canine](),
		reflect.TypeFor[Fox](),
	}, sources)

	assert.True(t, table.Candidates[2].Delegated)
	assert.Equal(t, "wolves", table.Candidates[2].Rule.Set().Name())
}

func TestTable_Select(t *testing.T) {
	_, animals := zoo()
	table := Build(animals)

	tests := []struct {
		name  string
		value any
		want  reflect.Type
	}{
		{"value", Dog{}, reflect.TypeFor[DogDto]()},
		{"pointer", &Cat{}, reflect.TypeFor[CatDto]()},
		{"subtype declared after its base", &Wolf{}, reflect.TypeFor[WolfDto]()},
		// *Fox is a Canine, and the Canine rule is declared first
		{"interface candidate wins by order", &Fox{}, reflect.TypeFor[CanineDto]()},
		{"value fox is no canine", Fox{}, reflect.TypeFor[FoxDto]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := table.Select(reflect.TypeOf(tt.value))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rule.Pair.Destination)
		})
	}
}

func TestTable_SelectUnhandled(t *testing.T) {
	_, animals := zoo()
	table := Build(animals)

	_, err := table.Select(reflect.TypeFor[*Plant]())
	require.ErrorIs(t, err, ErrUnhandledPolymorphicType)
	assert.EqualError(t, err, "unhandled polymorphic type: "+
		"could not map type `*dispatch.Plant` to `dispatch.AnimalDto` - no matching destination type found")
}

func TestTable_String(t *testing.T) {
	set := rules.NewSet("s")
	animals := rules.Map[Animal, AnimalDto](set)
	rules.Map[Dog, DogDto](set)

	assert.Equal(t, "dispatch.Animal->dispatch.AnimalDto[dispatch.Dog->dispatch.DogDto]", Build(animals).String())
}
