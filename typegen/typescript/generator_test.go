package typescript

import (
	"go/constant"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/typegen"
)

const ns = "App.Users"

func usersProgram() *contract.Program {
	return &contract.Program{
		Name: "Contracts",
		Aliases: map[string][]string{
			"App.Users.CreateUser": {"legacy.create-user"},
		},
		Declarations: []contract.Declaration{
			&contract.EnumDeclaration{Namespace: ns, Name: "Role", Members: []*contract.EnumMember{
				{Name: "Admin", Value: 0},
				{Name: "User", Value: 1},
			}},
			&contract.TypeDeclaration{Namespace: ns, Name: "UserDTO", Fields: []*contract.FieldDeclaration{
				{Name: "Id", Type: contract.Ref("guid")},
				{Name: "CreatedAt", Type: contract.Ref("DateTime").OrNull()},
				{Name: "Role", Type: contract.RefIn(ns, "Role")},
				{Name: "Score", Type: contract.Ref("decimal")},
				{Name: "Tags", Type: contract.ListOf(contract.Ref("string"))},
				{Name: "Meta", Type: contract.MapOf(contract.Ref("string"), contract.Ref("int"))},
			}},
			&contract.TypeDeclaration{
				Namespace: ns, Name: "CreateUser", Kind: contract.KindCommand,
				BaseTypes: []*contract.TypeRef{contract.Ref("ICommand")},
				Fields:    []*contract.FieldDeclaration{{Name: "Name", Type: contract.Ref("string")}},
				Nested: []contract.Declaration{
					&contract.TypeDeclaration{Namespace: ns, Name: "ErrorCodes", Constants: []*contract.ConstantDeclaration{
						{Name: "NameTooLong", Value: constant.MakeInt64(1)},
					}},
				},
			},
			&contract.TypeDeclaration{
				Namespace: ns, Name: "AllUsers", Kind: contract.KindQuery,
				Result: contract.ListOf(contract.RefIn(ns, "UserDTO")),
			},
			&contract.TypeDeclaration{
				Namespace: ns, Name: "Page",
				TypeParameters: []*contract.TypeParameterDeclaration{{Name: "T"}},
				Fields: []*contract.FieldDeclaration{
					{Name: "Items", Type: contract.ListOf(contract.Ref("T"))},
				},
			},
			&contract.TypeDeclaration{
				Namespace: ns, Name: "GetPage", Kind: contract.KindQuery,
				Result: contract.RefIn(ns, "Page", contract.RefIn(ns, "UserDTO")),
			},
		},
	}
}

func generate(t *testing.T, p *contract.Program) (contracts, client string) {
	t.Helper()
	result, err := typegen.Generate(p, []typegen.Generator{NewGenerator()}, typegen.Options{})
	require.NoError(t, err)

	c, ok := result.File(p.Name + ".ts")
	require.True(t, ok)
	cl, ok := result.File(p.Name + "Client.ts")
	require.True(t, ok)
	return c.Content, cl.Content
}

// =============================================================================
// Contracts file
// =============================================================================

func TestEmit_Enum(t *testing.T) {
	out, _ := generate(t, usersProgram())

	assert.Contains(t, out, "export class Role {\n"+
		"    static readonly admin = new Role(0);\n"+
		"    static readonly user = new Role(1);\n"+
		"    static readonly values: readonly Role[] = [Role.admin, Role.user];\n\n"+
		"    private constructor(readonly value: number) {}\n")
	assert.Contains(t, out, "return Role.values.find((v) => v.value === json) ?? new Role(json);")
	assert.Contains(t, out, "return other instanceof Role && other.value === this.value;")
}

func TestEmit_FieldCodecs(t *testing.T) {
	out, _ := generate(t, usersProgram())

	for _, want := range []string{
		"    id!: string;\n",
		"    createdAt: Date | null = null;\n",
		"    role!: Role;\n",
		"    meta!: Map<string, number>;\n",
		`id: json["Id"] as string,`,
		`createdAt: json["CreatedAt"] == null ? null : new Date(json["CreatedAt"] as string),`,
		`role: Role.fromJson(json["Role"] as number),`,
		`score: _double(json["Score"]),`,
		`tags: (json["Tags"] as unknown[]).map((e0) => e0 as string),`,
		`meta: new Map(Object.entries(json["Meta"] as Record<string, unknown>).map(([k0, v0]): [string, number] => [k0, v0 as number])),`,
		`"Id": this.id,`,
		`"CreatedAt": this.createdAt == null ? null : this.createdAt.toISOString(),`,
		`"Role": this.role.toJson(),`,
		`"Score": this.score,`,
		`"Tags": this.tags,`,
		`"Meta": Object.fromEntries(Array.from(this.meta, ([k0, v0]) => [k0, v0])),`,
	} {
		assert.Contains(t, out, want)
	}
}

func TestEmit_WireKeyOutsideIdentifierSyntax(t *testing.T) {
	out, _ := generate(t, &contract.Program{
		Name: "Contracts",
		Declarations: []contract.Declaration{
			&contract.TypeDeclaration{Namespace: ns, Name: "Event", Fields: []*contract.FieldDeclaration{
				{Name: "first-name", Type: contract.Ref("string")},
				{Name: "$type", Type: contract.Ref("string")},
			}},
		},
	})

	for _, want := range []string{
		"    firstName!: string;\n",
		"    type!: string;\n",
		`firstName: json["first-name"] as string,`,
		`type: json["$type"] as string,`,
		`"first-name": this.firstName,`,
		`"$type": this.type,`,
	} {
		assert.Contains(t, out, want)
	}
}

func TestEmit_DecimalAcceptsStringNaN(t *testing.T) {
	out, _ := generate(t, usersProgram())

	// Number("NaN") is NaN, Number("Infinity") is Infinity
	assert.Contains(t, out, `return typeof json === "string" ? Number(json) : (json as number);`)
	assert.Contains(t, out, `"Score": this.score,`)
}

func TestEmit_DateInQueryResult(t *testing.T) {
	p := &contract.Program{Name: "Contracts", Declarations: []contract.Declaration{
		&contract.TypeDeclaration{Namespace: "App", Name: "Event", Fields: []*contract.FieldDeclaration{
			{Name: "At", Type: contract.Ref("DateTime")},
		}},
		&contract.TypeDeclaration{Namespace: "App", Name: "LastEvent", Kind: contract.KindQuery,
			Result: contract.RefIn("App", "Event")},
	}}

	out, _ := generate(t, p)
	assert.Contains(t, out, "export function LastEventResultFactory(decodedJson: unknown): Event {\n"+
		"    return EventFromJson(decodedJson as Record<string, unknown>);\n}")
	assert.Contains(t, out, `at: new Date(json["At"] as string),`)
	assert.Contains(t, out, `"At": this.at.toISOString(),`)
}

func TestEmit_CommandAndErrorCodes(t *testing.T) {
	out, _ := generate(t, usersProgram())

	assert.Contains(t, out, "export class CreateUser implements ICommand {\n    static readonly fullName: string = \"App.Users.CreateUser\";\n")
	assert.Contains(t, out, "    getFullName(): string {\n        return CreateUser.fullName;\n    }")
	assert.Contains(t, out, "export class CreateUser_ErrorCodes {\n    static readonly nameTooLong: number = 1;\n\n    private constructor() {}\n}")
}

func TestEmit_ResultFactories(t *testing.T) {
	out, _ := generate(t, usersProgram())

	assert.Contains(t, out, "export function AllUsersResultFactory(decodedJson: unknown): UserDTO[] {\n"+
		"    return (decodedJson as unknown[]).map((e0) => UserDTOFromJson(e0 as Record<string, unknown>));\n}")
	assert.Contains(t, out, "export function GetPageResultFactory(decodedJson: unknown): Page<UserDTO> {\n"+
		"    return PageFromJson(decodedJson as Record<string, unknown>, (e0: unknown) => UserDTOFromJson(e0 as Record<string, unknown>));\n}")
	assert.NotContains(t, out, "static resultFactory")
}

func TestEmit_Generics(t *testing.T) {
	out, _ := generate(t, usersProgram())

	assert.Contains(t, out, "export class Page<T> {")
	assert.Contains(t, out, "export function PageFromJson<T>(json: Record<string, unknown>, fromJsonT: (json: unknown) => T): Page<T> {\n"+
		"    return new Page<T>({\n")
	assert.Contains(t, out, `items: (json["Items"] as unknown[]).map((e0) => fromJsonT(e0)),`)
	assert.Contains(t, out, `"Items": this.items.map((e0) => _encode(e0)),`)
	assert.Contains(t, out, "function _encode(value: unknown): unknown {")
}

func TestEmit_ConstraintIntersection(t *testing.T) {
	p := &contract.Program{Name: "Contracts", Declarations: []contract.Declaration{
		&contract.TypeDeclaration{Namespace: "App", Name: "Entity"},
		&contract.TypeDeclaration{Namespace: "App", Name: "Named"},
		&contract.TypeDeclaration{Namespace: "App", Name: "Box",
			TypeParameters: []*contract.TypeParameterDeclaration{
				{Name: "T", Constraints: []*contract.TypeRef{contract.RefIn("App", "Entity"), contract.RefIn("App", "Named")}},
			},
		},
	}}

	out, _ := generate(t, p)
	assert.Contains(t, out, "export class Box<T extends Entity & Named> {")
	assert.Contains(t, out, "export function BoxFromJson<T extends Entity & Named>(json: Record<string, unknown>, fromJsonT: (json: unknown) => T): Box<T> {")
}

func TestEmit_BaseTypeMerge(t *testing.T) {
	p := &contract.Program{Name: "Contracts", Declarations: []contract.Declaration{
		&contract.TypeDeclaration{Namespace: "App", Name: "Base",
			Fields: []*contract.FieldDeclaration{{Name: "Id", Type: contract.Ref("int")}}},
		&contract.TypeDeclaration{Namespace: "App", Name: "Derived",
			BaseTypes: []*contract.TypeRef{contract.RefIn("App", "Base")},
			Fields:    []*contract.FieldDeclaration{{Name: "Name", Type: contract.Ref("string")}}},
	}}

	out, _ := generate(t, p)
	assert.Contains(t, out, "export class Derived extends Base {")
	assert.Contains(t, out, "        super();\n        Object.assign(this, init);")
	assert.Contains(t, out, "    return new Derived({\n        id: json[\"Id\"] as number,\n        name: json[\"Name\"] as string,\n    });")
	assert.Contains(t, out, "        return {\n            ...super.toJson(),\n            \"Name\": this.name,\n        };")
}

func TestEmit_DerivedFromGenericBase(t *testing.T) {
	p := &contract.Program{Name: "Contracts", Declarations: []contract.Declaration{
		&contract.TypeDeclaration{Namespace: "App", Name: "User",
			Fields: []*contract.FieldDeclaration{{Name: "Name", Type: contract.Ref("string")}}},
		&contract.TypeDeclaration{Namespace: "App", Name: "Page",
			TypeParameters: []*contract.TypeParameterDeclaration{{Name: "T"}},
			Fields:         []*contract.FieldDeclaration{{Name: "Items", Type: contract.ListOf(contract.Ref("T"))}}},
		&contract.TypeDeclaration{Namespace: "App", Name: "UserPage",
			BaseTypes: []*contract.TypeRef{contract.RefIn("App", "Page", contract.RefIn("App", "User"))},
			Fields:    []*contract.FieldDeclaration{{Name: "Total", Type: contract.Ref("int")}}},
		&contract.TypeDeclaration{Namespace: "App", Name: "CountUsers", Kind: contract.KindQuery,
			Result: contract.Ref("int")},
		&contract.TypeDeclaration{Namespace: "App", Name: "ListUsers", Kind: contract.KindQuery,
			BaseTypes: []*contract.TypeRef{contract.RefIn("App", "CountUsers")},
			Result:    contract.RefIn("App", "UserPage")},
	}}

	out, client := generate(t, p)
	assert.Contains(t, out, "export class UserPage extends Page<User> {")
	assert.Contains(t, out, "export function UserPageFromJson(json: Record<string, unknown>): UserPage {\n"+
		"    return new UserPage({\n"+
		"        items: (json[\"Items\"] as unknown[]).map((e0) => UserFromJson(e0 as Record<string, unknown>)),\n"+
		"        total: json[\"Total\"] as number,\n"+
		"    });\n}")
	assert.Contains(t, out, "export class ListUsers extends CountUsers {\n    static readonly fullName: string = \"App.ListUsers\";")
	assert.Contains(t, out, "export function CountUsersResultFactory(decodedJson: unknown): number {")
	assert.Contains(t, out, "export function ListUsersResultFactory(decodedJson: unknown): UserPage {")

	// Derived classes must not redeclare statics whose signatures differ from the base's
	assert.NotContains(t, out, "static fromJson<")
	assert.NotContains(t, out, "static fromJson(json: Record")
	assert.NotContains(t, out, "static resultFactory")
	assert.Contains(t, client, `(query: ListUsers) => cqrs.fetchQuery("App.ListUsers", query.toJson(), ListUsersResultFactory),`)
}

func TestEmit_DecoderNameCollision(t *testing.T) {
	p := &contract.Program{Name: "Contracts", Declarations: []contract.Declaration{
		&contract.TypeDeclaration{Namespace: "App", Name: "User"},
		&contract.TypeDeclaration{Namespace: "App", Name: "UserFromJson"},
	}}

	result, err := typegen.Generate(p, []typegen.Generator{NewGenerator()}, typegen.Options{})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, errors.ErrNameCollision))
	assert.Contains(t, err.Error(), "App.UserFromJson")
}

// =============================================================================
// Client file
// =============================================================================

func TestClient_WireKeysAndAliases(t *testing.T) {
	_, client := generate(t, usersProgram())

	assert.Contains(t, client, `import { AllUsers, AllUsersResultFactory, CreateUser, GetPage, GetPageResultFactory } from "./Contracts";`)
	assert.Contains(t, client, `        "App.Users.CreateUser": (command: CreateUser) => cqrs.executeCommand("App.Users.CreateUser", command.toJson()),`)
	assert.Contains(t, client, `        "legacy.create-user": (command: CreateUser) => cqrs.executeCommand("legacy.create-user", command.toJson()),`)
	assert.Contains(t, client, `        "App.Users.AllUsers": (query: AllUsers) => cqrs.fetchQuery("App.Users.AllUsers", query.toJson(), AllUsersResultFactory),`)
	assert.Contains(t, client, "export const routes: readonly string[] = [\n"+
		"    \"/query/App.Users.AllUsers\",\n"+
		"    \"/command/App.Users.CreateUser\",\n"+
		"    \"/query/App.Users.GetPage\",\n"+
		"    \"legacy.create-user\",\n"+
		"];")
	assert.Contains(t, client, "export interface CQRS {")
	assert.NotContains(t, client, "UserDTO", "plain types get no stub")
}

func TestClient_WireKeyIgnoresMangling(t *testing.T) {
	p := &contract.Program{Name: "Api", Declarations: []contract.Declaration{
		&contract.TypeDeclaration{Namespace: "App.Users", Name: "Create", Kind: contract.KindCommand},
		&contract.TypeDeclaration{Namespace: "App.Orders", Name: "Create", Kind: contract.KindCommand},
		&contract.TypeDeclaration{Namespace: "App", Name: "Parent", Nested: []contract.Declaration{
			&contract.TypeDeclaration{Namespace: "App", Name: "Child", Kind: contract.KindOperation, Result: contract.Ref("bool")},
		}},
	}}

	out, client := generate(t, p)
	assert.Contains(t, out, "export class UsersCreate {\n    static readonly fullName: string = \"App.Users.Create\";")
	assert.Contains(t, out, "export class Parent_Child {\n    static readonly fullName: string = \"App.Parent.Child\";")
	assert.Contains(t, out, "    return decodedJson as boolean;")
	assert.Contains(t, client, `"App.Users.Create": (command: UsersCreate) => cqrs.executeCommand("App.Users.Create", command.toJson()),`)
	assert.Contains(t, client, `"App.Orders.Create": (command: OrdersCreate) => cqrs.executeCommand("App.Orders.Create", command.toJson()),`)
	assert.Contains(t, client, `"App.Parent.Child": (operation: Parent_Child) => cqrs.invokeOperation("App.Parent.Child", operation.toJson(), Parent_ChildResultFactory),`)
	assert.Contains(t, client, `"/operation/App.Parent.Child",`)
}

func TestClient_ExclusionRemovesStubsAndAliases(t *testing.T) {
	p := usersProgram()
	p.Declarations[2].(*contract.TypeDeclaration).Excluded = true

	out, client := generate(t, p)
	assert.NotContains(t, out, "CreateUser")
	assert.NotContains(t, client, "CreateUser")
	assert.NotContains(t, client, "legacy.create-user")
	assert.Contains(t, client, `"App.Users.AllUsers"`)
}

func TestClient_ExclusionRules(t *testing.T) {
	result, err := typegen.Generate(usersProgram(), []typegen.Generator{NewGenerator()}, typegen.Options{
		Exclude: typegen.ExcludeRules{Types: []string{"App.Users.GetPage"}},
	})
	require.NoError(t, err)

	client, ok := result.File("ContractsClient.ts")
	require.True(t, ok)
	assert.NotContains(t, client.Content, "GetPage")
	assert.Equal(t, []string{"App.Users.GetPage"}, result.Excluded)
}

// =============================================================================
// Failures and determinism
// =============================================================================

func TestEmit_InvalidAlias(t *testing.T) {
	p := usersProgram()
	p.Aliases["App.Users.CreateUser"] = []string{"has space"}

	result, err := typegen.Generate(p, []typegen.Generator{NewGenerator()}, typegen.Options{})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsInvalidConfig(err))
}

func TestEmit_Deterministic(t *testing.T) {
	out1, client1 := generate(t, usersProgram())
	for i := 0; i < 5; i++ {
		out2, client2 := generate(t, usersProgram())
		assert.Equal(t, out1, out2)
		assert.Equal(t, client1, client2)
	}
}

func TestEmit_Header(t *testing.T) {
	out, client := generate(t, usersProgram())
	for _, content := range []string{out, client} {
		assert.True(t, strings.HasPrefix(content, "/* eslint-disable */\n// Code generated by contractgen. DO NOT EDIT.\n"))
	}
}
