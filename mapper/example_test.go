package mapper_test

import (
	"fmt"

	"struct-mapper/mapper"
	"struct-mapper/options"
	"struct-mapper/rules"
)

type (
	Employee struct {
		Name   string
		Salary string
		Team   *Team
	}
	Team struct {
		Name string
		Lead *Employee
	}

	EmployeeDto struct {
		Name   string
		Salary int
		Team   *TeamDto
	}
	TeamDto struct {
		Name string
		Lead *EmployeeDto
	}
)

func staff() *rules.Set {
	set := rules.NewSet("staff", options.AllowConvertible, options.PreserveReferences)
	rules.Map[Employee, EmployeeDto](set)
	rules.Map[Team, TeamDto](set)

	return set
}

func ExampleMap() {
	m, err := mapper.New(staff())
	if err != nil {
		panic(err)
	}

	lead := &Employee{Name: "Grace", Salary: "120"}
	lead.Team = &Team{Name: "compilers", Lead: lead}

	c := m.NewContext()
	dto, err := mapper.Map[*Employee, *EmployeeDto](m, lead, c)

	fmt.Println(err, dto.Name, dto.Salary, dto.Team.Name, dto.Team.Lead == dto)
	fmt.Println(c.Maps(), c.References())

	// Output:
	// <nil> Grace 120 compilers true
	// 2 1
}

func ExampleMapper_Plans() {
	m, err := mapper.New(staff())
	if err != nil {
		panic(err)
	}

	for _, p := range m.Plans() {
		fmt.Println(p.Pair, p.Options)
		for _, f := range p.Fields {
			fmt.Println(" ", f.Field, f.Strategy)
		}
	}

	// Output:
	// mapper_test.Employee->mapper_test.EmployeeDto allow_convertible|preserve_references
	//   Name identity
	//   Salary convertible_cast
	//   Team nested_map
	// mapper_test.Team->mapper_test.TeamDto allow_convertible|preserve_references
	//   Name identity
	//   Lead nested_map
}
