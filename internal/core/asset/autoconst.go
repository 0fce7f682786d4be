package asset

// autoConstantNames are the shader parameter bindings the renderer fills in
// automatically. An AutoConstant is the position in this list plus one.
var autoConstantNames = []string{
	"world_matrix",
	"inverse_world_matrix",
	"transpose_world_matrix",
	"inverse_transpose_world_matrix",
	"bone_matrix_array_3x4",
	"world_matrix_array_3x4",
	"bone_matrix_array",
	"world_matrix_array",
	"bone_dualquaternion_array_2x4",
	"world_dualquaternion_array_2x4",
	"bone_scale_shear_matrix_array_3x4",
	"world_scale_shear_matrix_array_3x4",
	"view_matrix",
	"inverse_view_matrix",
	"transpose_view_matrix",
	"inverse_transpose_view_matrix",
	"projection_matrix",
	"inverse_projection_matrix",
	"transpose_projection_matrix",
	"inverse_transpose_projection_matrix",
	"viewproj_matrix",
	"inverse_viewproj_matrix",
	"transpose_viewproj_matrix",
	"inverse_transpose_viewproj_matrix",
	"worldview_matrix",
	"inverse_worldview_matrix",
	"transpose_worldview_matrix",
	"inverse_transpose_worldview_matrix",
	"normal_matrix",
	"worldviewproj_matrix",
	"inverse_worldviewproj_matrix",
	"transpose_worldviewproj_matrix",
	"inverse_transpose_worldviewproj_matrix",
	"render_target_flipping",
	"vertex_winding",
	"fog_colour",
	"fog_params",
	"surface_ambient_colour",
	"surface_diffuse_colour",
	"surface_specular_colour",
	"surface_emissive_colour",
	"surface_shininess",
	"surface_alpha_rejection_value",
	"light_count",
	"ambient_light_colour",
	"light_diffuse_colour",
	"light_specular_colour",
	"light_attenuation",
	"spotlight_params",
	"light_position",
	"light_position_object_space",
	"light_position_view_space",
	"light_direction",
	"light_direction_object_space",
	"light_direction_view_space",
	"light_distance_object_space",
	"light_power_scale",
	"light_diffuse_colour_power_scaled",
	"light_specular_colour_power_scaled",
	"light_diffuse_colour_array",
	"light_specular_colour_array",
	"light_diffuse_colour_power_scaled_array",
	"light_specular_colour_power_scaled_array",
	"light_attenuation_array",
	"light_position_array",
	"light_position_object_space_array",
	"light_position_view_space_array",
	"light_direction_array",
	"light_direction_object_space_array",
	"light_direction_view_space_array",
	"light_distance_object_space_array",
	"light_power_scale_array",
	"spotlight_params_array",
	"derived_ambient_light_colour",
	"derived_scene_colour",
	"derived_light_diffuse_colour",
	"derived_light_specular_colour",
	"derived_light_diffuse_colour_array",
	"derived_light_specular_colour_array",
	"light_number",
	"light_casts_shadows",
	"light_casts_shadows_array",
	"shadow_extrusion_distance",
	"camera_position",
	"camera_position_object_space",
	"camera_relative_position",
	"texture_viewproj_matrix",
	"texture_viewproj_matrix_array",
	"texture_worldviewproj_matrix",
	"texture_worldviewproj_matrix_array",
	"spotlight_viewproj_matrix",
	"spotlight_viewproj_matrix_array",
	"spotlight_worldviewproj_matrix",
	"spotlight_worldviewproj_matrix_array",
	"custom",
	"time",
	"time_0_x",
	"costime_0_x",
	"sintime_0_x",
	"tantime_0_x",
	"time_0_x_packed",
	"time_0_1",
	"costime_0_1",
	"sintime_0_1",
	"tantime_0_1",
	"time_0_1_packed",
	"time_0_2pi",
	"costime_0_2pi",
	"sintime_0_2pi",
	"tantime_0_2pi",
	"time_0_2pi_packed",
	"frame_time",
	"fps",
	"viewport_width",
	"viewport_height",
	"inverse_viewport_width",
	"inverse_viewport_height",
	"viewport_size",
	"view_direction",
	"view_side_vector",
	"view_up_vector",
	"fov",
	"near_clip_distance",
	"far_clip_distance",
	"pass_number",
	"pass_iteration_number",
	"animation_parametric",
	"texel_offsets",
	"scene_depth_range",
	"shadow_scene_depth_range",
	"shadow_scene_depth_range_array",
	"shadow_colour",
	"texture_size",
	"inverse_texture_size",
	"packed_texture_size",
	"texture_matrix",
	"lod_camera_position",
	"lod_camera_position_object_space",
	"light_custom",
	"point_params",
}

var autoConstants = func() map[string]AutoConstant {
	m := make(map[string]AutoConstant, len(autoConstantNames))
	for i, name := range autoConstantNames {
		m[name] = AutoConstant(i + 1)
	}
	return m
}()
